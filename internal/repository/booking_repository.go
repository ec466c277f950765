package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, tutor_id, student_id, date, start_time, end_time, lesson_type, status,
	rejected_reason, proposed_date, proposed_start, proposed_end, hold_amount, settled, created_at, updated_at`

// BookingRepository provides persistence for booking lifecycle state. The
// partial unique index on (tutor_id, date, start_time) over active statuses
// is the authoritative serialization point for the no-double-booking rule;
// lost races surface here as CONFLICT errors.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new pending booking. A unique-index violation means
// another active booking already occupies the slot.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	const query = `
INSERT INTO bookings (id, tutor_id, student_id, date, start_time, end_time, lesson_type, status, hold_amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.TutorID, b.StudentID, b.Date, b.StartTime, b.EndTime, b.LessonType, b.Status, b.HoldAmount, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "slot already has an active booking")
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID fetches one booking.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	var b models.Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &b, nil
}

// ListForTutorOnDate returns all bookings (any status) for one tutor day.
func (r *BookingRepository) ListForTutorOnDate(ctx context.Context, tutorID, date string) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE tutor_id = $1 AND date = $2 ORDER BY start_time ASC`, bookingColumns)

	var list []models.Booking
	if err := r.db.SelectContext(ctx, &list, query, tutorID, date); err != nil {
		return nil, fmt.Errorf("list tutor bookings for date: %w", err)
	}
	return list, nil
}

// ListForTutorRange returns bookings for one tutor inside [from, to]
// inclusive, ordered for reconciliation.
func (r *BookingRepository) ListForTutorRange(ctx context.Context, tutorID, from, to string) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE tutor_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC`, bookingColumns)

	var list []models.Booking
	if err := r.db.SelectContext(ctx, &list, query, tutorID, from, to); err != nil {
		return nil, fmt.Errorf("list tutor bookings in range: %w", err)
	}
	return list, nil
}

// ListForStudent returns a student's bookings, soonest first.
func (r *BookingRepository) ListForStudent(ctx context.Context, studentID string) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE student_id = $1 ORDER BY date ASC, start_time ASC`, bookingColumns)

	var list []models.Booking
	if err := r.db.SelectContext(ctx, &list, query, studentID); err != nil {
		return nil, fmt.Errorf("list student bookings: %w", err)
	}
	return list, nil
}

// UpdateStatus performs a compare-and-swap status transition. Zero rows
// affected means the booking moved concurrently; callers treat that as a
// lost race, never as success.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason *string) (*models.Booking, error) {
	const query = `
UPDATE bookings
SET status = $1, rejected_reason = COALESCE($2, rejected_reason), updated_at = $3
WHERE id = $4 AND status = $5`

	res, err := r.db.ExecContext(ctx, query, to, reason, time.Now().UTC(), id, from)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking status changed concurrently")
	}
	return r.GetByID(ctx, id)
}

// SetProposal stores a reschedule proposal and moves the booking to on_hold
// in one statement. The original slot stays occupied until the tutor decides.
func (r *BookingRepository) SetProposal(ctx context.Context, id, date, start, end string) (*models.Booking, error) {
	const query = `
UPDATE bookings
SET status = $1, proposed_date = $2, proposed_start = $3, proposed_end = $4, updated_at = $5
WHERE id = $6 AND status = $7`

	res, err := r.db.ExecContext(ctx, query, models.BookingOnHold, date, start, end, time.Now().UTC(), id, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("set reschedule proposal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("set reschedule proposal: %w", err)
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking status changed concurrently")
	}
	return r.GetByID(ctx, id)
}

// ApplyProposal promotes the held proposal into the booking's actual slot
// and re-confirms it atomically: the old slot releases and the new one is
// occupied in the same statement, so the reconciler never observes an
// intermediate state. A unique-index violation means the proposed slot was
// taken in the meantime.
func (r *BookingRepository) ApplyProposal(ctx context.Context, id string) (*models.Booking, error) {
	const query = `
UPDATE bookings
SET date = proposed_date, start_time = proposed_start, end_time = proposed_end,
	status = $1, proposed_date = NULL, proposed_start = NULL, proposed_end = NULL, updated_at = $2
WHERE id = $3 AND status = $4 AND proposed_date IS NOT NULL`

	res, err := r.db.ExecContext(ctx, query, models.BookingConfirmed, time.Now().UTC(), id, models.BookingOnHold)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "proposed slot already has an active booking")
		}
		return nil, fmt.Errorf("apply reschedule proposal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("apply reschedule proposal: %w", err)
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking status changed concurrently")
	}
	return r.GetByID(ctx, id)
}

// ListRecentPast returns the tutor's most recent completed sessions plus the
// all-time completed count.
func (r *BookingRepository) ListRecentPast(ctx context.Context, tutorID, before string, limit int) ([]models.Booking, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE tutor_id = $1 AND status = $2 AND date < $3 ORDER BY date DESC, start_time DESC LIMIT $4`, bookingColumns)

	var list []models.Booking
	if err := r.db.SelectContext(ctx, &list, query, tutorID, models.BookingConfirmed, before, limit); err != nil {
		return nil, 0, fmt.Errorf("list recent past bookings: %w", err)
	}

	var total int
	const countQuery = `SELECT COUNT(*) FROM bookings WHERE tutor_id = $1 AND status = $2 AND date < $3`
	if err := r.db.GetContext(ctx, &total, countQuery, tutorID, models.BookingConfirmed, before); err != nil {
		return nil, 0, fmt.Errorf("count past bookings: %w", err)
	}
	return list, total, nil
}

// ListUpcoming returns the tutor's next sessions plus the total upcoming count.
func (r *BookingRepository) ListUpcoming(ctx context.Context, tutorID, from string, limit int) ([]models.Booking, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE tutor_id = $1 AND status IN ($2, $3) AND date >= $4 ORDER BY date ASC, start_time ASC LIMIT $5`, bookingColumns)

	var list []models.Booking
	if err := r.db.SelectContext(ctx, &list, query, tutorID, models.BookingConfirmed, models.BookingPending, from, limit); err != nil {
		return nil, 0, fmt.Errorf("list upcoming bookings: %w", err)
	}

	var total int
	const countQuery = `SELECT COUNT(*) FROM bookings WHERE tutor_id = $1 AND status IN ($2, $3) AND date >= $4`
	if err := r.db.GetContext(ctx, &total, countQuery, tutorID, models.BookingConfirmed, models.BookingPending, from); err != nil {
		return nil, 0, fmt.Errorf("count upcoming bookings: %w", err)
	}
	return list, total, nil
}

// ListUnsettledPast returns confirmed bookings whose date has passed and
// whose funds have not yet been released to the tutor.
func (r *BookingRepository) ListUnsettledPast(ctx context.Context, before string, limit int) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE status = $1 AND settled = FALSE AND date < $2 ORDER BY date ASC LIMIT $3`, bookingColumns)

	var list []models.Booking
	if err := r.db.SelectContext(ctx, &list, query, models.BookingConfirmed, before, limit); err != nil {
		return nil, fmt.Errorf("list unsettled bookings: %w", err)
	}
	return list, nil
}

// MarkSettled flags a booking as paid out. CAS on settled so a crashed
// worker run cannot pay twice.
func (r *BookingRepository) MarkSettled(ctx context.Context, id string) error {
	const query = `UPDATE bookings SET settled = TRUE, updated_at = $1 WHERE id = $2 AND settled = FALSE`

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark booking settled: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark booking settled: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrConflict, "booking already settled")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
