package dto

// CreateBookingRequest is a student's request to reserve a tutor slot.
type CreateBookingRequest struct {
	TutorID    string `json:"tutor_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required,dateonly"`
	Start      string `json:"start" binding:"required,clock"`
	End        string `json:"end" binding:"required,clock"`
	LessonType string `json:"lesson_type" binding:"omitempty,oneof=ONLINE IN_PERSON"`
}

// RespondBookingRequest is the tutor's accept/reject decision on a pending
// booking. Reason is optional and only recorded when rejecting.
type RespondBookingRequest struct {
	Accept bool    `json:"accept"`
	Reason *string `json:"reason"`
}

// RescheduleRequest proposes a replacement slot for a confirmed booking.
type RescheduleRequest struct {
	Date  string `json:"date" binding:"required,dateonly"`
	Start string `json:"start" binding:"required,clock"`
	End   string `json:"end" binding:"required,clock"`
}

// RespondRescheduleRequest is the tutor's decision on a held proposal.
type RespondRescheduleRequest struct {
	Accept bool `json:"accept"`
}

// BookingHistoryRequest captures query parameters for history listings.
type BookingHistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
