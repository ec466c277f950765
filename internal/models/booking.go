package models

import (
	"fmt"
	"time"
)

// BookingStatus is the stored lifecycle state of a booking. The display-only
// "expired" state is derived by the reconciler and never persisted.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRejected  BookingStatus = "rejected"
	BookingOnHold    BookingStatus = "on_hold"
)

// Valid reports whether the status is one of the stored lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingRejected, BookingOnHold:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
// Terminal bookings stay on record for history, they are never deleted.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingRejected
}

// Active reports whether the booking occupies its slot.
func (s BookingStatus) Active() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingOnHold:
		return true
	}
	return false
}

var bookingTransitions = map[BookingStatus]map[BookingStatus]struct{}{
	BookingPending: {
		BookingConfirmed: {},
		BookingRejected:  {},
		BookingCancelled: {},
	},
	BookingConfirmed: {
		BookingOnHold:    {},
		BookingCancelled: {},
	},
	BookingOnHold: {
		BookingConfirmed: {},
		BookingCancelled: {},
	},
}

// TransitionError reports a lifecycle move the state machine does not permit.
type TransitionError struct {
	Current   BookingStatus
	Attempted BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking transition %s -> %s is not permitted", e.Current, e.Attempted)
}

// CanTransition validates a lifecycle move, returning a *TransitionError when
// the move is not in the transition table.
func (s BookingStatus) CanTransition(to BookingStatus) error {
	if allowed, ok := bookingTransitions[s]; ok {
		if _, ok := allowed[to]; ok {
			return nil
		}
	}
	return &TransitionError{Current: s, Attempted: to}
}

// Booking is a lesson reservation between one student and one tutor.
// Date is a calendar date "2006-01-02"; StartTime/EndTime are clock values
// "15:04" so ISO strings compare lexicographically, as the booking queries
// rely on.
type Booking struct {
	ID             string        `db:"id" json:"id"`
	TutorID        string        `db:"tutor_id" json:"tutor_id"`
	StudentID      string        `db:"student_id" json:"student_id"`
	Date           string        `db:"date" json:"date"`
	StartTime      string        `db:"start_time" json:"start"`
	EndTime        string        `db:"end_time" json:"end"`
	LessonType     string        `db:"lesson_type" json:"lesson_type"`
	Status         BookingStatus `db:"status" json:"status"`
	RejectedReason *string       `db:"rejected_reason" json:"rejected_reason,omitempty"`
	ProposedDate   *string       `db:"proposed_date" json:"proposed_date,omitempty"`
	ProposedStart  *string       `db:"proposed_start" json:"proposed_start,omitempty"`
	ProposedEnd    *string       `db:"proposed_end" json:"proposed_end,omitempty"`
	HoldAmount     float64       `db:"hold_amount" json:"hold_amount"`
	Settled        bool          `db:"settled" json:"settled"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// Participant reports whether the given user is the booking's tutor or student.
func (b *Booking) Participant(userID string) bool {
	return userID == b.TutorID || userID == b.StudentID
}

// Counterparty returns the other participant relative to the given actor.
func (b *Booking) Counterparty(actorID string) string {
	if actorID == b.StudentID {
		return b.TutorID
	}
	return b.StudentID
}

// DurationMinutes computes the booked lesson length from the clock strings.
func (b *Booking) DurationMinutes() (int, error) {
	start, err := ClockToMinutes(b.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := ClockToMinutes(b.EndTime)
	if err != nil {
		return 0, err
	}
	if end <= start {
		return 0, fmt.Errorf("booking %s: end %q not after start %q", b.ID, b.EndTime, b.StartTime)
	}
	return end - start, nil
}

// BookingDetail decorates a booking with display names for both parties.
type BookingDetail struct {
	Booking
	TutorName   string `json:"tutor_name"`
	StudentName string `json:"student_name"`
}

// BookingHistory summarises a tutor's recent-past or upcoming sessions.
type BookingHistory struct {
	Sessions   []BookingDetail `json:"sessions"`
	TotalCount int             `json:"total_count"`
}
