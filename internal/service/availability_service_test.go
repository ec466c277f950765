package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type availabilityStoreStub struct {
	templates map[string]*models.AvailabilityTemplate
}

func (s *availabilityStoreStub) GetTemplate(ctx context.Context, tutorID string) (*models.AvailabilityTemplate, error) {
	if tpl, ok := s.templates[tutorID]; ok {
		return tpl, nil
	}
	return &models.AvailabilityTemplate{TutorID: tutorID, Days: map[string]models.TimeSlot{}}, nil
}

func (s *availabilityStoreStub) SetTemplate(ctx context.Context, tpl *models.AvailabilityTemplate) error {
	s.templates[tpl.TutorID] = tpl
	return nil
}

type patternCacheStub struct {
	patterns []string
}

func (c *patternCacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}

func TestAvailabilityTemplatePadsWeekdays(t *testing.T) {
	store := &availabilityStoreStub{templates: map[string]*models.AvailabilityTemplate{
		"tutor-1": {TutorID: "tutor-1", Days: map[string]models.TimeSlot{
			"Mon": {Enabled: true, Start: "09:00", End: "17:00"},
		}},
	}}
	svc := NewAvailabilityService(store, nil, nil)

	tpl, err := svc.Template(context.Background(), "tutor-1")
	require.NoError(t, err)
	assert.Len(t, tpl.Days, 7)
	assert.True(t, tpl.Days["Mon"].Enabled)
	assert.False(t, tpl.Days["Sun"].Enabled)
}

func TestUpdateAvailabilityTemplate(t *testing.T) {
	store := &availabilityStoreStub{templates: map[string]*models.AvailabilityTemplate{}}
	cache := &patternCacheStub{}
	svc := NewAvailabilityService(store, cache, nil)

	tpl, err := svc.UpdateTemplate(context.Background(), "tutor-1", dto.UpdateAvailabilityRequest{
		Days: map[string]dto.TimeSlotInput{
			"Tue": {Enabled: true, Start: "10:00", End: "14:00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, tpl.Days, 7)
	assert.Equal(t, "10:00", tpl.Days["Tue"].Start)

	require.Len(t, cache.patterns, 1)
	assert.Equal(t, "calendar:tutor-1:*", cache.patterns[0])
}

func TestUpdateAvailabilityTemplateValidation(t *testing.T) {
	store := &availabilityStoreStub{templates: map[string]*models.AvailabilityTemplate{}}
	svc := NewAvailabilityService(store, nil, nil)

	_, err := svc.UpdateTemplate(context.Background(), "tutor-1", dto.UpdateAvailabilityRequest{
		Days: map[string]dto.TimeSlotInput{
			"Funday": {Enabled: true, Start: "10:00", End: "14:00"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.templates)

	_, err = svc.UpdateTemplate(context.Background(), "tutor-1", dto.UpdateAvailabilityRequest{
		Days: map[string]dto.TimeSlotInput{
			"Wed": {Enabled: true, Start: "15:00", End: "09:00"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
