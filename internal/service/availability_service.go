package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type availabilityStore interface {
	GetTemplate(ctx context.Context, tutorID string) (*models.AvailabilityTemplate, error)
	SetTemplate(ctx context.Context, tpl *models.AvailabilityTemplate) error
}

// AvailabilityService manages a tutor's recurring weekly template. Template
// edits never touch existing bookings; the reconciler resolves conflicts at
// render time, with bookings taking precedence over a disabled day.
type AvailabilityService struct {
	store  availabilityStore
	cache  cacheInvalidator
	logger *zap.Logger
}

// NewAvailabilityService constructs the service. cache may be nil.
func NewAvailabilityService(store availabilityStore, cache cacheInvalidator, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{store: store, cache: cache, logger: logger}
}

// Template returns the tutor's weekly template, padded so every weekday is
// present in the response.
func (s *AvailabilityService) Template(ctx context.Context, tutorID string) (*models.AvailabilityTemplate, error) {
	tpl, err := s.store.GetTemplate(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	for _, day := range models.Weekdays {
		if _, ok := tpl.Days[day]; !ok {
			tpl.Days[day] = models.TimeSlot{}
		}
	}
	return tpl, nil
}

// UpdateTemplate replaces the tutor's weekly template atomically and drops
// the tutor's cached calendar months.
func (s *AvailabilityService) UpdateTemplate(ctx context.Context, tutorID string, req dto.UpdateAvailabilityRequest) (*models.AvailabilityTemplate, error) {
	tpl := &models.AvailabilityTemplate{
		TutorID: tutorID,
		Days:    make(map[string]models.TimeSlot, len(req.Days)),
	}
	for key, slot := range req.Days {
		tpl.Days[key] = models.TimeSlot{Enabled: slot.Enabled, Start: slot.Start, End: slot.End}
	}

	if err := tpl.Validate(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	if err := s.store.SetTemplate(ctx, tpl); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("calendar:%s:*", tutorID)); err != nil {
			s.logger.Warn("failed to invalidate calendar cache", zap.String("tutor_id", tutorID), zap.Error(err))
		}
	}

	s.logger.Info("availability template updated", zap.String("tutor_id", tutorID), zap.Int("days", len(tpl.Days)))
	return s.Template(ctx, tutorID)
}
