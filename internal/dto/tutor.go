package dto

// UpsertTutorProfileRequest creates or updates the caller's tutor profile.
// Any edit sends the profile back to admin review.
type UpsertTutorProfileRequest struct {
	Headline       string  `json:"headline" binding:"required,max=200"`
	Subjects       string  `json:"subjects" binding:"required,max=500"`
	Qualifications string  `json:"qualifications" binding:"max=2000"`
	HourlyRate     float64 `json:"hourly_rate" binding:"required,gt=0"`
}

// TutorSearchRequest captures marketplace search filters.
type TutorSearchRequest struct {
	Subject  string  `form:"subject"`
	MaxRate  float64 `form:"max_rate" binding:"omitempty,gt=0"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	PageSize int     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TutorApprovalRequest is the admin decision on a pending profile.
type TutorApprovalRequest struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason"`
}
