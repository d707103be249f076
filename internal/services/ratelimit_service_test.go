package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitCheck(t *testing.T) {
	fx := newFixture(t)
	fx.cfg.ReviewDailyLimit = 2
	user := testutil.CreateUser(t, fx.db, "writer@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	require.NoError(t, fx.limits.Check(nil, user.ID, LimitReview))
	testutil.CreateReview(t, fx.db, company, user, 4, models.ReviewPending)
	require.NoError(t, fx.limits.Check(nil, user.ID, LimitReview))
	testutil.CreateReview(t, fx.db, company, user, 2, models.ReviewRejected)

	assert.ErrorIs(t, fx.limits.Check(nil, user.ID, LimitReview), ErrRateLimited)
	assert.NoError(t, fx.limits.Check(nil, user.ID, LimitCompany))

	// A day later the old submissions no longer count.
	fx.limits.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.NoError(t, fx.limits.Check(nil, user.ID, LimitReview))
}

func TestRateLimitRemaining(t *testing.T) {
	fx := newFixture(t)
	user := testutil.CreateUser(t, fx.db, "writer@example.com", models.RoleUser)

	empty, err := fx.limits.Remaining(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, empty.RemainingReviews)
	assert.Equal(t, 3, empty.RemainingCompanies)
	assert.Equal(t, 10, empty.RemainingReports)
	assert.Zero(t, empty.ResetInHours)

	company := testutil.CreateCompany(t, fx.db, "Acme")
	testutil.CreateReview(t, fx.db, company, user, 3, models.ReviewPending)
	_, err = fx.companies.Create(user.ID, validCompany("Globex"))
	require.NoError(t, err)

	got, err := fx.limits.Remaining(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.RemainingReviews)
	assert.Equal(t, 2, got.RemainingCompanies)
	assert.Equal(t, 10, got.RemainingReports)
	assert.InDelta(t, 24, got.ResetInHours, 0.05)

	fx.limits.now = func() time.Time { return time.Now().Add(6 * time.Hour) }
	later, err := fx.limits.Remaining(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 18, later.ResetInHours, 0.05)
}
