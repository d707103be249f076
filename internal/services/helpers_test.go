package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	cfg        *config.Config
	limits     *RateLimitService
	moderation *ModerationService
	companies  *CompanyService
	reviews    *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	cfg := testutil.Config()
	limits := NewRateLimitService(db, cfg)
	moderation := NewModerationService(db, limits)
	return &fixture{
		db:         db,
		cfg:        cfg,
		limits:     limits,
		moderation: moderation,
		companies:  NewCompanyService(db, limits),
		reviews:    NewReviewService(db, limits, moderation),
	}
}
