package services

import (
	"fmt"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LimitKind is a kind of user submission counted against a daily quota.
type LimitKind string

const (
	LimitReview  LimitKind = "review"
	LimitCompany LimitKind = "company"
	LimitReport  LimitKind = "report"
)

const limitWindow = 24 * time.Hour

// RateLimitService enforces per-user submission quotas over a rolling
// 24 hour window, counted from the rows the user created.
type RateLimitService struct {
	db  *gorm.DB
	cfg *config.Config
	now func() time.Time
}

func NewRateLimitService(db *gorm.DB, cfg *config.Config) *RateLimitService {
	return &RateLimitService{db: db, cfg: cfg, now: time.Now}
}

func (s *RateLimitService) limit(kind LimitKind) int {
	switch kind {
	case LimitReview:
		return s.cfg.ReviewDailyLimit
	case LimitCompany:
		return s.cfg.CompanyDailyLimit
	case LimitReport:
		return s.cfg.ReportDailyLimit
	}
	return 0
}

// query returns a query over the rows of kind created by userID. Deleted
// companies and reviews still count so deleting does not free quota.
func (s *RateLimitService) query(db *gorm.DB, kind LimitKind, userID uuid.UUID) *gorm.DB {
	switch kind {
	case LimitCompany:
		return db.Model(&models.Company{}).Unscoped().Where("created_by = ?", userID)
	case LimitReport:
		return db.Model(&models.ReviewReport{}).Where("reporter_id = ?", userID)
	default:
		return db.Model(&models.Review{}).Unscoped().Where("user_id = ?", userID)
	}
}

func (s *RateLimitService) used(db *gorm.DB, kind LimitKind, userID uuid.UUID, since time.Time) (int, *time.Time, error) {
	var created []time.Time
	if err := s.query(db, kind, userID).
		Where("created_at > ?", since).
		Order("created_at ASC").
		Pluck("created_at", &created).Error; err != nil {
		return 0, nil, err
	}
	if len(created) == 0 {
		return 0, nil, nil
	}
	return len(created), &created[0], nil
}

// Check returns ErrRateLimited when userID has no quota left for kind.
// Pass the transaction when the check guards an insert in the same tx.
func (s *RateLimitService) Check(db *gorm.DB, userID uuid.UUID, kind LimitKind) error {
	if db == nil {
		db = s.db
	}
	used, _, err := s.used(db, kind, userID, s.now().Add(-limitWindow))
	if err != nil {
		return fmt.Errorf("failed to count %s submissions: %w", kind, err)
	}
	if used >= s.limit(kind) {
		return ErrRateLimited
	}
	return nil
}

// Remaining reports the quota left per kind and the hours until the oldest
// counted submission leaves the window. ResetInHours is 0 when nothing is
// counted.
func (s *RateLimitService) Remaining(userID uuid.UUID) (*dto.RemainingLimits, error) {
	now := s.now()
	since := now.Add(-limitWindow)

	out := &dto.RemainingLimits{}
	var oldest *time.Time
	for _, kind := range []LimitKind{LimitReview, LimitCompany, LimitReport} {
		used, first, err := s.used(s.db, kind, userID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s submissions: %w", kind, err)
		}
		remaining := s.limit(kind) - used
		if remaining < 0 {
			remaining = 0
		}
		switch kind {
		case LimitReview:
			out.RemainingReviews = remaining
		case LimitCompany:
			out.RemainingCompanies = remaining
		case LimitReport:
			out.RemainingReports = remaining
		}
		if first != nil && (oldest == nil || first.Before(*oldest)) {
			oldest = first
		}
	}

	if oldest != nil {
		hours := oldest.Add(limitWindow).Sub(now).Hours()
		out.ResetInHours = math.Max(0, math.Round(hours*100)/100)
	}
	return out, nil
}
