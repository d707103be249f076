package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type ActionReportRequest struct {
	Status    string `json:"status" validate:"required,oneof=reviewed actioned dismissed"`
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

type ModerateReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected pending"`
	Note   string `json:"note" validate:"max=1000"`
}

type BulkModerateRequest struct {
	ReviewIDs []uuid.UUID `json:"review_ids" validate:"required,min=1,max=100"`
	Status    string      `json:"status" validate:"required,oneof=approved rejected pending"`
	Note      string      `json:"note" validate:"max=1000"`
}

type BulkModerateResponse struct {
	Updated int         `json:"updated"`
	Missing []uuid.UUID `json:"missing,omitempty"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

type SetFlagRequest struct {
	Value       string `json:"value" validate:"required"`
	Type        string `json:"type" validate:"omitempty,oneof=string bool int json"`
	Audience    string `json:"audience" validate:"omitempty,oneof=all admin"`
	Description string `json:"description" validate:"max=255"`
}

type ScrapeRequest struct {
	Company string `json:"company" validate:"required,min=2,max=100"`
	Pages   int    `json:"pages" validate:"omitempty,min=1,max=5"`
}

type IngestResponse struct {
	Feeds    int      `json:"feeds"`
	Items    int      `json:"items"`
	Stored   int      `json:"stored"`
	Errors   []string `json:"errors,omitempty"`
	Duration string   `json:"duration"`
}
