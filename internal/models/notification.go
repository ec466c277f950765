package models

import "time"

// Notification event types emitted by the booking lifecycle.
const (
	NotifyBookingCreated      = "booking_created"
	NotifyBookingAccepted     = "booking_accepted"
	NotifyBookingRejected     = "booking_rejected"
	NotifyBookingCancelled    = "booking_cancelled"
	NotifyRescheduleRequested = "reschedule_requested"
	NotifyRescheduleApproved  = "reschedule_approved"
	NotifyRescheduleRejected  = "reschedule_rejected"
)

// Notification is a persisted in-app message. Delivery transport is out of
// scope; the core only records that an event should reach the recipient.
type Notification struct {
	ID          string    `db:"id" json:"id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Type        string    `db:"type" json:"type"`
	BookingID   *string   `db:"booking_id" json:"booking_id,omitempty"`
	Message     string    `db:"message" json:"message"`
	Read        bool      `db:"read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
