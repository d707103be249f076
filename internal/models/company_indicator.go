package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var DistressIndicatorTypes = []string{
	"layoffs", "funding_issues", "revenue_decline", "leadership_changes", "office_closures",
	"bankruptcy_filing", "acquisition_rumors", "stock_decline", "negative_news", "employee_exodus",
}

var GrowthIndicatorTypes = []string{
	"funding_round", "revenue_growth", "hiring_spree", "expansion", "new_products",
	"partnerships", "awards", "positive_news", "ipo_preparation", "acquisition_interest",
}

// DistressIndicator is one sign that a company is in financial trouble.
// Only verified indicators count towards the distress section.
type DistressIndicator struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	IndicatorType string     `gorm:"size:40;not null;index" json:"indicator_type"`
	Severity      int        `gorm:"not null" json:"severity"`
	ImpactScore   int        `gorm:"not null" json:"impact_score"`
	Description   string     `gorm:"size:1000;not null" json:"description"`
	SourceURL     string     `gorm:"size:500" json:"source_url,omitempty"`
	DetectedAt    time.Time  `gorm:"index" json:"detected_at"`
	Verified      bool       `gorm:"default:false;index" json:"verified"`
	VerifiedBy    *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (DistressIndicator) TableName() string {
	return "financial_distress_indicators"
}

func (d *DistressIndicator) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.DetectedAt.IsZero() {
		d.DetectedAt = time.Now()
	}
	return nil
}

// GrowthIndicator is one sign that a company is a rising startup.
type GrowthIndicator struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	IndicatorType string     `gorm:"size:40;not null;index" json:"indicator_type"`
	GrowthScore   int        `gorm:"not null" json:"growth_score"`
	Description   string     `gorm:"size:1000;not null" json:"description"`
	SourceURL     string     `gorm:"size:500" json:"source_url,omitempty"`
	FundingAmount *float64   `json:"funding_amount,omitempty"`
	Valuation     *float64   `json:"valuation,omitempty"`
	DetectedAt    time.Time  `gorm:"index" json:"detected_at"`
	Verified      bool       `gorm:"default:false;index" json:"verified"`
	VerifiedBy    *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (GrowthIndicator) TableName() string {
	return "rising_startup_indicators"
}

func (g *GrowthIndicator) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.DetectedAt.IsZero() {
		g.DetectedAt = time.Now()
	}
	return nil
}
