package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type tutorStore interface {
	Create(ctx context.Context, p *models.TutorProfile) error
	GetByUserID(ctx context.Context, userID string) (*models.TutorProfile, error)
	UpdateProfile(ctx context.Context, p *models.TutorProfile) error
	SetApproval(ctx context.Context, userID string, approval models.TutorApproval, reason *string) error
	Search(ctx context.Context, filter models.TutorSearchFilter) ([]models.TutorListing, int, error)
	ListPendingApproval(ctx context.Context) ([]models.TutorListing, error)
}

// TutorService manages marketplace profiles and the admin approval gate.
// Only approved profiles appear in search and accept bookings; any profile
// edit sends it back to review.
type TutorService struct {
	store  tutorStore
	logger *zap.Logger
}

// NewTutorService constructs the service.
func NewTutorService(store tutorStore, logger *zap.Logger) *TutorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TutorService{store: store, logger: logger}
}

// Profile returns the caller's own tutor profile.
func (s *TutorService) Profile(ctx context.Context, userID string) (*models.TutorProfile, error) {
	return s.store.GetByUserID(ctx, userID)
}

// UpsertProfile creates or updates the caller's profile. Either way the
// profile lands in PENDING_APPROVAL.
func (s *TutorService) UpsertProfile(ctx context.Context, userID string, req dto.UpsertTutorProfileRequest) (*models.TutorProfile, error) {
	existing, err := s.store.GetByUserID(ctx, userID)
	if err != nil && appErrors.FromError(err).Code != appErrors.ErrNotFound.Code {
		return nil, err
	}

	if existing == nil {
		profile := &models.TutorProfile{
			ID:             uuid.NewString(),
			UserID:         userID,
			Headline:       req.Headline,
			Subjects:       req.Subjects,
			Qualifications: req.Qualifications,
			HourlyRate:     req.HourlyRate,
			Approval:       models.TutorPendingApproval,
		}
		if err := s.store.Create(ctx, profile); err != nil {
			return nil, err
		}
		s.logger.Info("tutor profile created", zap.String("user_id", userID))
		return profile, nil
	}

	existing.Headline = req.Headline
	existing.Subjects = req.Subjects
	existing.Qualifications = req.Qualifications
	existing.HourlyRate = req.HourlyRate
	if err := s.store.UpdateProfile(ctx, existing); err != nil {
		return nil, err
	}
	s.logger.Info("tutor profile updated", zap.String("user_id", userID))
	return s.store.GetByUserID(ctx, userID)
}

// Search returns approved tutors matching the marketplace filters.
func (s *TutorService) Search(ctx context.Context, req dto.TutorSearchRequest) ([]models.TutorListing, int, error) {
	filter := models.TutorSearchFilter{
		Subject:  req.Subject,
		MaxRate:  req.MaxRate,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return s.store.Search(ctx, filter)
}

// ListPendingApproval returns profiles awaiting admin review.
func (s *TutorService) ListPendingApproval(ctx context.Context) ([]models.TutorListing, error) {
	return s.store.ListPendingApproval(ctx)
}

// Decide applies an admin approval decision. Rejection requires a reason.
func (s *TutorService) Decide(ctx context.Context, userID string, approve bool, reason *string) (*models.TutorProfile, error) {
	approval := models.TutorApproved
	if !approve {
		approval = models.TutorRejected
		if reason == nil || *reason == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "rejection requires a reason")
		}
	}

	if err := s.store.SetApproval(ctx, userID, approval, reason); err != nil {
		return nil, err
	}
	s.logger.Info("tutor approval decided", zap.String("user_id", userID), zap.String("approval", string(approval)))
	return s.store.GetByUserID(ctx, userID)
}
