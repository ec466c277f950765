package models

import "time"

// TutorApproval is the admin-controlled publication state of a tutor profile.
type TutorApproval string

const (
	TutorPendingApproval TutorApproval = "PENDING_APPROVAL"
	TutorApproved        TutorApproval = "APPROVED"
	TutorRejected        TutorApproval = "REJECTED"
)

// TutorProfile holds the marketplace-facing details of a tutor. Only
// approved profiles are searchable and bookable.
type TutorProfile struct {
	ID             string        `db:"id" json:"id"`
	UserID         string        `db:"user_id" json:"user_id"`
	Headline       string        `db:"headline" json:"headline"`
	Subjects       string        `db:"subjects" json:"subjects"`
	Qualifications string        `db:"qualifications" json:"qualifications"`
	HourlyRate     float64       `db:"hourly_rate" json:"hourly_rate"`
	Approval       TutorApproval `db:"approval" json:"approval"`
	RejectedReason *string       `db:"rejected_reason" json:"rejected_reason,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// TutorSearchFilter narrows the marketplace tutor listing.
type TutorSearchFilter struct {
	Subject  string
	MaxRate  float64
	Page     int
	PageSize int
}

// TutorListing is a search row joining profile and user name.
type TutorListing struct {
	TutorProfile
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
