package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsArticle is a feed item matched to a company during ingestion.
type NewsArticle struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID   *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	CompanyName string     `gorm:"size:100;index" json:"company_name"`
	Title       string     `gorm:"size:500;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	URL         string     `gorm:"size:1000;not null;uniqueIndex" json:"url"`
	PublishedAt time.Time  `gorm:"index" json:"published_at"`
	SourceName  string     `gorm:"size:100" json:"source_name"`
	Category    string     `gorm:"size:50" json:"category,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (NewsArticle) TableName() string {
	return "company_news"
}

func (a *NewsArticle) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
