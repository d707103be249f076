package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestModerateUpdatesRatingAndHistory(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	mod := testutil.CreateUser(t, fx.db, "mod@example.com", models.RoleModerator)
	company := testutil.CreateCompany(t, fx.db, "Acme")
	review := testutil.CreateReview(t, fx.db, company, author, 2, models.ReviewPending)

	approved, err := fx.moderation.Moderate(review.ID, mod.ID, models.ReviewApproved, " looks fine ")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, approved.Status)
	assert.Equal(t, "looks fine", approved.ModerationNote)
	require.NotNil(t, approved.ModeratedBy)
	assert.Equal(t, mod.ID, *approved.ModeratedBy)

	got, err := fx.companies.Get(company.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.AverageRating)
	assert.Equal(t, 1, got.TotalReviews)

	_, err = fx.moderation.Moderate(review.ID, mod.ID, models.ReviewRejected, "on second thought")
	require.NoError(t, err)

	got, err = fx.companies.Get(company.ID)
	require.NoError(t, err)
	assert.Zero(t, got.TotalReviews)

	history, err := fx.moderation.History(review.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ReviewPending, history[0].PreviousStatus)
	assert.Equal(t, models.ReviewApproved, history[0].NewStatus)
	assert.Equal(t, models.ReviewApproved, history[1].PreviousStatus)
	assert.Equal(t, models.ReviewRejected, history[1].NewStatus)

	_, err = fx.moderation.Moderate(review.ID, mod.ID, "archived", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = fx.moderation.Moderate(uuid.New(), mod.ID, models.ReviewApproved, "")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestBulkModerate(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	mod := testutil.CreateUser(t, fx.db, "mod@example.com", models.RoleModerator)
	acme := testutil.CreateCompany(t, fx.db, "Acme")
	globex := testutil.CreateCompany(t, fx.db, "Globex")

	r1 := testutil.CreateReview(t, fx.db, acme, author, 5, models.ReviewPending)
	r2 := testutil.CreateReview(t, fx.db, acme, author, 3, models.ReviewPending)
	r3 := testutil.CreateReview(t, fx.db, globex, author, 1, models.ReviewPending)
	missing := uuid.New()

	res, err := fx.moderation.BulkModerate([]uuid.UUID{r1.ID, r2.ID, r3.ID, missing}, mod.ID, models.ReviewApproved, "")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, []uuid.UUID{missing}, res.Missing)

	a, err := fx.companies.Get(acme.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, a.AverageRating)
	assert.Equal(t, 2, a.TotalReviews)

	g, err := fx.companies.Get(globex.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.AverageRating)

	var history int64
	fx.db.Model(&models.ModerationHistory{}).Count(&history)
	assert.Equal(t, int64(3), history)
}

func TestListQueue(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	testutil.CreateReview(t, fx.db, company, author, 4, models.ReviewApproved)
	testutil.CreateReview(t, fx.db, company, author, 4, models.ReviewPending)
	flagged := testutil.CreateReview(t, fx.db, company, author, 1, models.ReviewPending)
	require.NoError(t, fx.db.Model(flagged).Update("spam_reason", ReasonSpam).Error)

	page := database.NewPage(1, 20)

	pending, total, err := fx.moderation.ListQueue("", false, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pending, 2)

	onlyFlagged, total, err := fx.moderation.ListQueue(models.ReviewPending, true, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, flagged.ID, onlyFlagged[0].ID)

	_, _, err = fx.moderation.ListQueue("bogus", false, page)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestReports(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	reporter := testutil.CreateUser(t, fx.db, "reporter@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")
	review := testutil.CreateReview(t, fx.db, company, author, 1, models.ReviewApproved)
	hidden := testutil.CreateReview(t, fx.db, company, author, 1, models.ReviewPending)

	report, err := fx.moderation.CreateReport(reporter.ID, review.ID, &dto.CreateReportRequest{Reason: "  fake review "})
	require.NoError(t, err)
	assert.Equal(t, "fake review", report.Reason)
	assert.Equal(t, models.ReportPending, report.Status)

	_, err = fx.moderation.CreateReport(reporter.ID, review.ID, &dto.CreateReportRequest{Reason: "again"})
	assert.ErrorIs(t, err, ErrAlreadyReported)

	// The unique index rejects duplicates that skip the service check.
	err = fx.db.Create(&models.ReviewReport{ReporterID: reporter.ID, ReviewID: review.ID, Reason: "direct"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, err = fx.moderation.CreateReport(reporter.ID, hidden.ID, &dto.CreateReportRequest{Reason: "hidden"})
	assert.ErrorIs(t, err, ErrReviewNotFound)

	reports, total, err := fx.moderation.ListReports(models.ReportPending, database.NewPage(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)

	require.NoError(t, fx.moderation.ActionReport(report.ID, &dto.ActionReportRequest{Status: models.ReportDismissed, AdminNote: "not fake"}))
	_, total, err = fx.moderation.ListReports(models.ReportPending, database.NewPage(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.ErrorIs(t, fx.moderation.ActionReport(uuid.New(), &dto.ActionReportRequest{Status: models.ReportReviewed}), ErrReportNotFound)
	assert.ErrorIs(t, fx.moderation.ActionReport(report.ID, &dto.ActionReportRequest{Status: "pending"}), ErrInvalidStatus)
}

func TestReportsRateLimited(t *testing.T) {
	fx := newFixture(t)
	fx.cfg.ReportDailyLimit = 1
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	reporter := testutil.CreateUser(t, fx.db, "reporter@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")
	first := testutil.CreateReview(t, fx.db, company, author, 1, models.ReviewApproved)
	second := testutil.CreateReview(t, fx.db, company, author, 1, models.ReviewApproved)

	_, err := fx.moderation.CreateReport(reporter.ID, first.ID, &dto.CreateReportRequest{Reason: "spam"})
	require.NoError(t, err)
	_, err = fx.moderation.CreateReport(reporter.ID, second.ID, &dto.CreateReportRequest{Reason: "spam"})
	assert.ErrorIs(t, err, ErrRateLimited)
}
