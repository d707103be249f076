package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

var Industries = []string{
	"Technology", "Finance", "Healthcare", "Retail", "Manufacturing",
	"Education", "Construction", "Entertainment", "Transportation",
	"Energy", "Real Estate", "Agriculture", "Other",
}

var CompanySizes = []string{"Small", "Medium", "Large", "Enterprise"}

type Company struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description        string         `gorm:"type:text" json:"description"`
	Industry           string         `gorm:"size:50;index" json:"industry"`
	Location           string         `gorm:"size:100;index" json:"location"`
	Website            string         `gorm:"size:255" json:"website,omitempty"`
	LogoURL            string         `gorm:"size:500" json:"logo_url,omitempty"`
	Size               string         `gorm:"size:20" json:"size,omitempty"`
	VerificationStatus string         `gorm:"size:20;not null;default:'pending'" json:"verification_status"`
	Verified           bool           `gorm:"default:false" json:"verified"`
	VerificationDate   *time.Time     `json:"verification_date,omitempty"`
	AverageRating      float64        `gorm:"default:0;index" json:"average_rating"`
	TotalReviews       int            `gorm:"default:0" json:"total_reviews"`
	CreatedBy          *uuid.UUID     `gorm:"type:uuid;index" json:"created_by,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.VerificationStatus == "" {
		c.VerificationStatus = VerificationPending
	}
	return nil
}
