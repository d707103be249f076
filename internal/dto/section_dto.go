package dto

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
)

type AddDistressIndicatorRequest struct {
	IndicatorType string `json:"indicator_type" validate:"required,distress_type"`
	Severity      int    `json:"severity" validate:"required,min=1,max=5"`
	ImpactScore   int    `json:"impact_score" validate:"required,min=1,max=10"`
	Description   string `json:"description" validate:"required,min=10,max=1000"`
	SourceURL     string `json:"source_url" validate:"omitempty,url,max=500"`
}

type AddGrowthIndicatorRequest struct {
	IndicatorType string   `json:"indicator_type" validate:"required,growth_type"`
	GrowthScore   int      `json:"growth_score" validate:"required,min=1,max=10"`
	Description   string   `json:"description" validate:"required,min=10,max=1000"`
	SourceURL     string   `json:"source_url" validate:"omitempty,url,max=500"`
	FundingAmount *float64 `json:"funding_amount" validate:"omitempty,gte=0"`
	Valuation     *float64 `json:"valuation" validate:"omitempty,gte=0"`
}

// SectionFilter narrows the distress and rising startup listings. Scores
// are on a 0-100 scale; a zero MaxScore means no upper bound.
type SectionFilter struct {
	Industry       string
	Location       string
	MinScore       int
	MaxScore       int
	IndicatorTypes []string
	TimeRange      string
	MinFunding     float64
	SortBy         string
	Order          string
	Page           int
	Limit          int
}

type DistressCompany struct {
	ID              uuid.UUID                  `json:"id"`
	Name            string                     `json:"name"`
	Industry        string                     `json:"industry"`
	Location        string                     `json:"location"`
	AverageRating   float64                    `json:"average_rating"`
	TotalReviews    int                        `json:"total_reviews"`
	DistressScore   int                        `json:"distress_score"`
	LatestIndicator string                     `json:"latest_indicator"`
	IndicatorCount  int                        `json:"indicator_count"`
	Indicators      []models.DistressIndicator `json:"distress_indicators"`
}

type DistressCompaniesResponse struct {
	Companies            []DistressCompany `json:"companies"`
	TotalCount           int               `json:"total_count"`
	AverageDistressScore int               `json:"average_distress_score"`
	MostCommonIndicator  string            `json:"most_common_indicator,omitempty"`
	Page                 int               `json:"page"`
	Limit                int               `json:"limit"`
}

type GrowthCompany struct {
	ID              uuid.UUID                `json:"id"`
	Name            string                   `json:"name"`
	Industry        string                   `json:"industry"`
	Location        string                   `json:"location"`
	AverageRating   float64                  `json:"average_rating"`
	TotalReviews    int                      `json:"total_reviews"`
	GrowthScore     int                      `json:"growth_score"`
	LatestIndicator string                   `json:"latest_indicator"`
	IndicatorCount  int                      `json:"indicator_count"`
	LatestFunding   *float64                 `json:"latest_funding,omitempty"`
	Indicators      []models.GrowthIndicator `json:"growth_indicators"`
}

type RisingStartupsResponse struct {
	Companies           []GrowthCompany `json:"companies"`
	TotalCount          int             `json:"total_count"`
	AverageGrowthScore  int             `json:"average_growth_score"`
	TotalFunding        float64         `json:"total_funding"`
	MostCommonIndicator string          `json:"most_common_indicator,omitempty"`
	Page                int             `json:"page"`
	Limit               int             `json:"limit"`
}

type SectionIndustryStat struct {
	Industry     string   `json:"industry"`
	Count        int      `json:"count"`
	AverageScore int      `json:"average_score"`
	TotalFunding *float64 `json:"total_funding,omitempty"`
}

// IndicatorTypeStat averages the raw indicator value: severity for distress
// indicators, growth_score for growth indicators.
type IndicatorTypeStat struct {
	IndicatorType string  `json:"indicator_type"`
	Count         int     `json:"count"`
	AverageValue  float64 `json:"average_value"`
}

// TrendPoint aggregates the indicators detected in one month (YYYY-MM).
type TrendPoint struct {
	Month        string `json:"month"`
	Count        int    `json:"count"`
	AverageScore int    `json:"average_score"`
}

type SectionStatistics struct {
	TotalCompanies  int                   `json:"total_companies"`
	AverageScore    int                   `json:"average_score"`
	TotalFunding    *float64              `json:"total_funding,omitempty"`
	ByIndustry      []SectionIndustryStat `json:"by_industry"`
	ByIndicatorType []IndicatorTypeStat   `json:"by_indicator_type"`
	TrendData       []TrendPoint          `json:"trend_data"`
}
