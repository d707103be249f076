package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

var EmploymentStatuses = []string{"Full-time", "Part-time", "Contract", "Intern"}

type Review struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Rating            int            `gorm:"not null" json:"rating"`
	Title             string         `gorm:"size:100;not null" json:"title"`
	Content           string         `gorm:"type:text;not null" json:"content"`
	Pros              string         `gorm:"size:500" json:"pros,omitempty"`
	Cons              string         `gorm:"size:500" json:"cons,omitempty"`
	Position          string         `gorm:"size:100" json:"position"`
	EmploymentStatus  string         `gorm:"size:20" json:"employment_status"`
	IsCurrentEmployee bool           `gorm:"default:false" json:"is_current_employee"`
	ReviewerName      string         `gorm:"size:100" json:"reviewer_name,omitempty"`
	ReviewerEmail     string         `gorm:"size:255" json:"-"`
	Status            string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	SpamReason        string         `gorm:"size:50" json:"spam_reason,omitempty"`
	ModerationNote    string         `gorm:"size:1000" json:"moderation_note,omitempty"`
	ModeratedAt       *time.Time     `json:"moderated_at,omitempty"`
	ModeratedBy       *uuid.UUID     `gorm:"type:uuid" json:"moderated_by,omitempty"`
	LikeCount         int            `gorm:"default:0" json:"like_count"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Company           *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReviewPending
	}
	return nil
}

// ValidReviewStatus reports whether s is one of the moderation states.
func ValidReviewStatus(s string) bool {
	return s == ReviewPending || s == ReviewApproved || s == ReviewRejected
}

// ReviewLike is one user's like of one review.
type ReviewLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_likes_review_user" json:"review_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_likes_review_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *ReviewLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ModerationHistory records every status change made by a moderator.
type ModerationHistory struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID       uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`
	ModeratorID    uuid.UUID `gorm:"type:uuid;not null" json:"moderator_id"`
	PreviousStatus string    `gorm:"size:20" json:"previous_status"`
	NewStatus      string    `gorm:"size:20;not null" json:"new_status"`
	Note           string    `gorm:"size:1000" json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ModerationHistory) TableName() string {
	return "moderation_history"
}

func (h *ModerationHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
