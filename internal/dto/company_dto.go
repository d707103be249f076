package dto

type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
	Industry    string `json:"industry" validate:"required,industry"`
	Location    string `json:"location" validate:"required,min=2,max=100"`
	Website     string `json:"website" validate:"omitempty,url,max=255"`
	Size        string `json:"size" validate:"omitempty,oneof=Small Medium Large Enterprise"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url,max=500"`
}

// UpdateCompanyRequest only carries fields a client may change; ratings,
// verification and ownership are never writable through it.
type UpdateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,min=10,max=1000"`
	Industry    *string `json:"industry" validate:"omitempty,industry"`
	Location    *string `json:"location" validate:"omitempty,min=2,max=100"`
	Website     *string `json:"website" validate:"omitempty,url,max=255"`
	Size        *string `json:"size" validate:"omitempty,oneof=Small Medium Large Enterprise"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url,max=500"`
}

type VerificationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
}

type CompanyFilter struct {
	Search    string
	Industry  string
	Location  string
	MinRating float64
	SortBy    string
	Order     string
	Page      int
	Limit     int
}

type IndustryStat struct {
	Industry     string  `json:"industry"`
	AvgRating    float64 `json:"avg_rating"`
	CompanyCount int64   `json:"company_count"`
	ReviewCount  int64   `json:"review_count"`
}

type LocationStat struct {
	Location     string  `json:"location"`
	AvgRating    float64 `json:"avg_rating"`
	CompanyCount int64   `json:"company_count"`
	ReviewCount  int64   `json:"review_count"`
}

type DashboardStats struct {
	Users          int64            `json:"users"`
	Companies      int64            `json:"companies"`
	Reviews        int64            `json:"reviews"`
	ReviewsByState map[string]int64 `json:"reviews_by_status"`
	OpenReports    int64            `json:"open_reports"`
	NewsArticles   int64            `json:"news_articles"`
}
