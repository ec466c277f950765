package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

type availabilityRow struct {
	TutorID   string `db:"tutor_id"`
	Weekday   string `db:"weekday"`
	Enabled   bool   `db:"enabled"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

// AvailabilityRepository stores one weekly template per tutor, one row per
// weekday.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetTemplate loads the tutor's weekly template. Tutors without stored rows
// get an empty template (every day disabled).
func (r *AvailabilityRepository) GetTemplate(ctx context.Context, tutorID string) (*models.AvailabilityTemplate, error) {
	const query = `SELECT tutor_id, weekday, enabled, start_time, end_time FROM availability_slots WHERE tutor_id = $1`

	var rows []availabilityRow
	if err := r.db.SelectContext(ctx, &rows, query, tutorID); err != nil {
		return nil, fmt.Errorf("get availability template: %w", err)
	}

	tpl := &models.AvailabilityTemplate{TutorID: tutorID, Days: make(map[string]models.TimeSlot, len(rows))}
	for _, row := range rows {
		tpl.Days[row.Weekday] = models.TimeSlot{Enabled: row.Enabled, Start: row.StartTime, End: row.EndTime}
	}
	return tpl, nil
}

// SetTemplate replaces the tutor's weekly template in one transaction.
func (r *AvailabilityRepository) SetTemplate(ctx context.Context, tpl *models.AvailabilityTemplate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin template update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_slots WHERE tutor_id = $1`, tpl.TutorID); err != nil {
		return fmt.Errorf("clear availability template: %w", err)
	}

	const insert = `
INSERT INTO availability_slots (tutor_id, weekday, enabled, start_time, end_time, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now().UTC()
	for weekday, slot := range tpl.Days {
		if _, err := tx.ExecContext(ctx, insert, tpl.TutorID, weekday, slot.Enabled, slot.Start, slot.End, now); err != nil {
			return fmt.Errorf("insert availability slot %s: %w", weekday, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit template update: %w", err)
	}
	return nil
}
