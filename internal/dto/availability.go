package dto

// TimeSlotInput is one weekday's window in a template update.
type TimeSlotInput struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start" binding:"omitempty,clock"`
	End     string `json:"end" binding:"omitempty,clock"`
}

// UpdateAvailabilityRequest replaces a tutor's full weekly template. Keys
// are 3-letter weekday names; absent keys disable the day.
type UpdateAvailabilityRequest struct {
	Days map[string]TimeSlotInput `json:"days" binding:"required,dive,keys,weekday,endkeys"`
}

// CalendarRequest captures the month being rendered.
type CalendarRequest struct {
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}
