package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

const tutorColumns = `id, user_id, headline, subjects, qualifications, hourly_rate, approval, rejected_reason, created_at, updated_at`

// TutorRepository provides persistence for tutor marketplace profiles.
type TutorRepository struct {
	db *sqlx.DB
}

// NewTutorRepository constructs the repository.
func NewTutorRepository(db *sqlx.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

// Create inserts a new tutor profile in the pending-approval state.
func (r *TutorRepository) Create(ctx context.Context, p *models.TutorProfile) error {
	const query = `
INSERT INTO tutor_profiles (id, user_id, headline, subjects, qualifications, hourly_rate, approval, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Headline, p.Subjects, p.Qualifications, p.HourlyRate, p.Approval, p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("insert tutor profile: %w", err)
	}
	return nil
}

// GetByUserID fetches the profile owned by the given tutor account.
func (r *TutorRepository) GetByUserID(ctx context.Context, userID string) (*models.TutorProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM tutor_profiles WHERE user_id = $1`, tutorColumns)

	var p models.TutorProfile
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor profile not found")
		}
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile overwrites the tutor-editable fields and resets approval to
// pending so an admin re-reviews the change.
func (r *TutorRepository) UpdateProfile(ctx context.Context, p *models.TutorProfile) error {
	const query = `
UPDATE tutor_profiles
SET headline = $1, subjects = $2, qualifications = $3, hourly_rate = $4, approval = $5, rejected_reason = NULL, updated_at = $6
WHERE user_id = $7`

	res, err := r.db.ExecContext(ctx, query, p.Headline, p.Subjects, p.Qualifications, p.HourlyRate, models.TutorPendingApproval, time.Now().UTC(), p.UserID)
	if err != nil {
		return fmt.Errorf("update tutor profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tutor profile: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "tutor profile not found")
	}
	return nil
}

// SetApproval records the admin decision.
func (r *TutorRepository) SetApproval(ctx context.Context, userID string, approval models.TutorApproval, reason *string) error {
	const query = `
UPDATE tutor_profiles SET approval = $1, rejected_reason = $2, updated_at = $3 WHERE user_id = $4`

	res, err := r.db.ExecContext(ctx, query, approval, reason, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("set tutor approval: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set tutor approval: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "tutor profile not found")
	}
	return nil
}

// Search lists approved tutors matching the filter, newest first.
func (r *TutorRepository) Search(ctx context.Context, filter models.TutorSearchFilter) ([]models.TutorListing, int, error) {
	where := strings.Builder{}
	where.WriteString(`WHERE tp.approval = 'APPROVED'`)
	args := []interface{}{}

	if filter.Subject != "" {
		args = append(args, "%"+filter.Subject+"%")
		fmt.Fprintf(&where, " AND tp.subjects ILIKE $%d", len(args))
	}
	if filter.MaxRate > 0 {
		args = append(args, filter.MaxRate)
		fmt.Fprintf(&where, " AND tp.hourly_rate <= $%d", len(args))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tutor_profiles tp %s`, where.String())
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tutors: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`
SELECT tp.id, tp.user_id, tp.headline, tp.subjects, tp.qualifications, tp.hourly_rate, tp.approval,
	tp.rejected_reason, tp.created_at, tp.updated_at, u.first_name, u.last_name
FROM tutor_profiles tp
JOIN users u ON u.id = tp.user_id
%s
ORDER BY tp.created_at DESC
LIMIT $%d OFFSET $%d`, where.String(), len(args)-1, len(args))

	var list []models.TutorListing
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search tutors: %w", err)
	}
	return list, total, nil
}

// ListPendingApproval returns profiles awaiting admin review.
func (r *TutorRepository) ListPendingApproval(ctx context.Context) ([]models.TutorListing, error) {
	const query = `
SELECT tp.id, tp.user_id, tp.headline, tp.subjects, tp.qualifications, tp.hourly_rate, tp.approval,
	tp.rejected_reason, tp.created_at, tp.updated_at, u.first_name, u.last_name
FROM tutor_profiles tp
JOIN users u ON u.id = tp.user_id
WHERE tp.approval = 'PENDING_APPROVAL'
ORDER BY tp.updated_at ASC`

	var list []models.TutorListing
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("list pending tutors: %w", err)
	}
	return list, nil
}
