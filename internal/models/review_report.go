package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportActioned  = "actioned"
	ReportDismissed = "dismissed"
)

// ReviewReport is a user-submitted flag on a review, worked by moderators.
type ReviewReport struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_review_reports_reporter_review" json:"reporter_id"`
	ReviewID   uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_review_reports_reporter_review" json:"review_id"`
	Reason     string      `gorm:"not null;size:500" json:"reason"`
	Status     string      `gorm:"not null;default:'pending';size:20;index" json:"status"`
	AdminNote  string      `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Reporter   UserProfile `gorm:"foreignKey:ReporterID" json:"-"`
}

func (r *ReviewReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReportPending
	}
	return nil
}
