package model

import (
	"time"
)

// MaintenanceRequest is a tenant-filed maintenance issue tracked through the
// ordered status workflow. The waiting number is a display token only and is
// not a uniqueness-guaranteeing key.
type MaintenanceRequest struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	WaitingNumber string        `json:"waiting_number" gorm:"type:varchar(20);not null"`
	TenantID      uint          `json:"tenant_id" gorm:"index;not null"`
	Tenant        *Tenant       `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	IssueLocation IssueLocation `json:"issue_location" gorm:"type:varchar(30);not null"`
	UrgencyLevel  UrgencyLevel  `json:"urgency_level" gorm:"type:varchar(10);not null"`
	Description   string        `json:"description" gorm:"type:text;not null"`
	ImageURL      string        `json:"image_url,omitempty" gorm:"type:varchar(512)"`
	Status        RequestStatus `json:"status" gorm:"type:varchar(30);index;not null"`
	HasFeedback   bool          `json:"has_feedback" gorm:"default:false"`
	SubmittedAt   time.Time     `json:"submitted_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Feedback is the tenant's rating of completed work. At most one row exists
// per request and rows are immutable after creation.
type Feedback struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RequestID   uint      `json:"request_id" gorm:"uniqueIndex;not null"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	Rating      int       `json:"rating" gorm:"not null"`
	Comment     string    `json:"comment" gorm:"type:text"`
	SubmittedAt time.Time `json:"submitted_at"`
}
