package dto

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	CompanyID         uuid.UUID `json:"company_id" validate:"required"`
	Rating            int       `json:"rating" validate:"required,min=1,max=5"`
	Title             string    `json:"title" validate:"required,min=2,max=100"`
	Content           string    `json:"content" validate:"required,min=10,max=2000"`
	Pros              string    `json:"pros" validate:"omitempty,max=500"`
	Cons              string    `json:"cons" validate:"omitempty,max=500"`
	Position          string    `json:"position" validate:"required,min=2,max=100"`
	EmploymentStatus  string    `json:"employment_status" validate:"required,oneof=Full-time Part-time Contract Intern"`
	IsCurrentEmployee bool      `json:"is_current_employee"`
	ReviewerName      string    `json:"reviewer_name" validate:"omitempty,max=100"`
	ReviewerEmail     string    `json:"reviewer_email" validate:"omitempty,email,max=255"`
}

type UpdateReviewRequest struct {
	Rating            *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Title             *string `json:"title" validate:"omitempty,min=2,max=100"`
	Content           *string `json:"content" validate:"omitempty,min=10,max=2000"`
	Pros              *string `json:"pros" validate:"omitempty,max=500"`
	Cons              *string `json:"cons" validate:"omitempty,max=500"`
	Position          *string `json:"position" validate:"omitempty,min=2,max=100"`
	EmploymentStatus  *string `json:"employment_status" validate:"omitempty,oneof=Full-time Part-time Contract Intern"`
	IsCurrentEmployee *bool   `json:"is_current_employee"`
}

type ReviewFilter struct {
	CompanyID *uuid.UUID
	UserID    *uuid.UUID
	Status    string
	Page      int
	Limit     int
}

// Viewer is the caller on whose behalf a listing is produced.
type Viewer struct {
	UserID uuid.UUID
	Role   string
}

func (v *Viewer) IsModerator() bool {
	return v != nil && (v.Role == models.RoleModerator || v.Role == models.RoleAdmin)
}

type ReviewResponse struct {
	models.Review
	UserLiked bool `json:"user_liked"`
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type RemainingLimits struct {
	RemainingReviews   int     `json:"remaining_reviews"`
	RemainingCompanies int     `json:"remaining_companies"`
	RemainingReports   int     `json:"remaining_reports"`
	ResetInHours       float64 `json:"reset_in_hours"`
}
