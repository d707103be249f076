package services

import "errors"

var (
	ErrForbidden   = errors.New("forbidden")
	ErrRateLimited = errors.New("daily submission limit reached")

	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyExists   = errors.New("a company with this name already exists")

	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidStatus  = errors.New("invalid status")

	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyReported = errors.New("review already reported")

	ErrIndicatorNotFound = errors.New("indicator not found")

	ErrFlagNotFound = errors.New("flag not found")
	ErrInvalidFlag  = errors.New("invalid flag")
	ErrInvalidRole  = errors.New("invalid role")
)
