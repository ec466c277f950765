package models

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// SlotStatus is the reconciled display status of one calendar date. It is
// derived per render from the availability template and the bookings on that
// date, never stored.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotPending   SlotStatus = "pending"
	SlotOnHold    SlotStatus = "on_hold"
	SlotDisabled  SlotStatus = "disabled"
	SlotExpired   SlotStatus = "expired"
)

// DayCandidate is one calendar date's projected slot, produced by applying
// the weekly template to a concrete month. Computed fresh per query.
type DayCandidate struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Enabled bool   `json:"enabled"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// DaySlot is a candidate annotated with the reconciled status. Past is an
// independent flag: a past available day is merely non-interactive while a
// past pending day reports expired.
type DaySlot struct {
	Date      string     `json:"date"`
	Weekday   string     `json:"weekday"`
	Status    SlotStatus `json:"status"`
	Past      bool       `json:"past"`
	Start     string     `json:"start,omitempty"`
	End       string     `json:"end,omitempty"`
	BookingID *string    `json:"booking_id,omitempty"`
}

// MonthGrid is one tutor's reconciled calendar month. FirstWeekdayOffset is
// the number of leading blank cells a Sunday-first grid needs before day 1.
type MonthGrid struct {
	TutorID            string    `json:"tutor_id"`
	Year               int       `json:"year"`
	Month              int       `json:"month"`
	FirstWeekdayOffset int       `json:"first_weekday_offset"`
	Days               []DaySlot `json:"days"`
}

// IntegrityFault records two active bookings observed on the same slot, a
// state the create guard should make impossible.
type IntegrityFault struct {
	TutorID    string   `json:"tutor_id"`
	Date       string   `json:"date"`
	Start      string   `json:"start"`
	BookingIDs []string `json:"booking_ids"`
}
