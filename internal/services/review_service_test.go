package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReview(companyID uuid.UUID) *dto.CreateReviewRequest {
	return &dto.CreateReviewRequest{
		CompanyID:        companyID,
		Rating:           4,
		Title:            "Solid employer",
		Content:          "Good benefits and reasonable hours overall.",
		Position:         "Engineer",
		EmploymentStatus: "Full-time",
	}
}

func TestReviewCreate(t *testing.T) {
	fx := newFixture(t)
	user := testutil.CreateUser(t, fx.db, "writer@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	review, err := fx.reviews.Create(user.ID, validReview(company.ID))
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, review.Status)
	assert.Empty(t, review.SpamReason)

	req := validReview(company.ID)
	req.Content = "Visit https://spam.example for a better job"
	flagged, err := fx.reviews.Create(user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, flagged.Status)
	assert.Equal(t, ReasonURL, flagged.SpamReason)

	_, err = fx.reviews.Create(user.ID, validReview(uuid.New()))
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	// Pending reviews never move the rating.
	got, err := fx.companies.Get(company.ID)
	require.NoError(t, err)
	assert.Zero(t, got.TotalReviews)
}

func TestReviewCreateRateLimited(t *testing.T) {
	fx := newFixture(t)
	user := testutil.CreateUser(t, fx.db, "writer@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	for i := 0; i < fx.cfg.ReviewDailyLimit; i++ {
		_, err := fx.reviews.Create(user.ID, validReview(company.ID))
		require.NoError(t, err)
	}
	_, err := fx.reviews.Create(user.ID, validReview(company.ID))
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestDeletedReviewsStillUseQuota(t *testing.T) {
	fx := newFixture(t)
	fx.cfg.ReviewDailyLimit = 1
	user := testutil.CreateUser(t, fx.db, "writer@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	review, err := fx.reviews.Create(user.ID, validReview(company.ID))
	require.NoError(t, err)
	require.NoError(t, fx.reviews.Delete(review.ID, user.ID, models.RoleUser))

	assert.ErrorIs(t, fx.limits.Check(nil, user.ID, LimitReview), ErrRateLimited)
	_, err = fx.reviews.Create(user.ID, validReview(company.ID))
	assert.ErrorIs(t, err, ErrRateLimited)

	var kept int64
	require.NoError(t, fx.db.Model(&models.Review{}).Unscoped().Where("id = ?", review.ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)
}

func TestReviewVisibility(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	stranger := testutil.CreateUser(t, fx.db, "stranger@example.com", models.RoleUser)
	mod := testutil.CreateUser(t, fx.db, "mod@example.com", models.RoleModerator)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	approved := testutil.CreateReview(t, fx.db, company, author, 4, models.ReviewApproved)
	pending := testutil.CreateReview(t, fx.db, company, author, 2, models.ReviewPending)
	testutil.CreateReview(t, fx.db, company, stranger, 1, models.ReviewRejected)

	tests := []struct {
		name   string
		viewer *dto.Viewer
		total  int64
	}{
		{"anonymous", nil, 1},
		{"author", &dto.Viewer{UserID: author.ID, Role: models.RoleUser}, 2},
		{"stranger", &dto.Viewer{UserID: stranger.ID, Role: models.RoleUser}, 2},
		{"moderator", &dto.Viewer{UserID: mod.ID, Role: models.RoleModerator}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, total, _, err := fx.reviews.List(dto.ReviewFilter{CompanyID: &company.ID}, tc.viewer)
			require.NoError(t, err)
			assert.Equal(t, tc.total, total)
		})
	}

	_, err := fx.reviews.Get(pending.ID, nil)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	_, err = fx.reviews.Get(pending.ID, &dto.Viewer{UserID: stranger.ID})
	assert.ErrorIs(t, err, ErrReviewNotFound)

	own, err := fx.reviews.Get(pending.ID, &dto.Viewer{UserID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, pending.ID, own.ID)

	public, err := fx.reviews.Get(approved.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, public.Company)
	assert.Equal(t, "Acme", public.Company.Name)

	_, _, _, err = fx.reviews.List(dto.ReviewFilter{Status: "bogus"}, nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestReviewUpdateReturnsToPending(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	other := testutil.CreateUser(t, fx.db, "other@example.com", models.RoleUser)
	mod := testutil.CreateUser(t, fx.db, "mod@example.com", models.RoleModerator)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	review, err := fx.reviews.Create(author.ID, validReview(company.ID))
	require.NoError(t, err)
	_, err = fx.moderation.Moderate(review.ID, mod.ID, models.ReviewApproved, "ok")
	require.NoError(t, err)

	got, err := fx.companies.Get(company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalReviews)

	rating := 1
	_, err = fx.reviews.Update(review.ID, other.ID, &dto.UpdateReviewRequest{Rating: &rating})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := fx.reviews.Update(review.ID, author.ID, &dto.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, updated.Status)
	assert.Equal(t, 1, updated.Rating)
	assert.Nil(t, updated.ModeratedAt)
	assert.Empty(t, updated.ModerationNote)

	got, err = fx.companies.Get(company.ID)
	require.NoError(t, err)
	assert.Zero(t, got.TotalReviews)
	assert.Zero(t, got.AverageRating)
}

func TestReviewDelete(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	other := testutil.CreateUser(t, fx.db, "other@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")

	first := testutil.CreateReview(t, fx.db, company, author, 5, models.ReviewApproved)
	second := testutil.CreateReview(t, fx.db, company, author, 3, models.ReviewApproved)
	require.NoError(t, RecalculateRating(fx.db, company.ID))

	assert.ErrorIs(t, fx.reviews.Delete(first.ID, other.ID, models.RoleUser), ErrForbidden)
	require.NoError(t, fx.reviews.Delete(first.ID, author.ID, models.RoleUser))

	got, err := fx.companies.Get(company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalReviews)
	assert.Equal(t, 3.0, got.AverageRating)

	require.NoError(t, fx.reviews.Delete(second.ID, other.ID, models.RoleAdmin))
	assert.ErrorIs(t, fx.reviews.Delete(second.ID, author.ID, models.RoleUser), ErrReviewNotFound)
}

func TestReviewToggleLike(t *testing.T) {
	fx := newFixture(t)
	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	fan := testutil.CreateUser(t, fx.db, "fan@example.com", models.RoleUser)
	second := testutil.CreateUser(t, fx.db, "second@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")
	review := testutil.CreateReview(t, fx.db, company, author, 4, models.ReviewApproved)
	pending := testutil.CreateReview(t, fx.db, company, author, 4, models.ReviewPending)

	res, err := fx.reviews.ToggleLike(review.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LikeResponse{Liked: true, LikeCount: 1}, *res)

	res, err = fx.reviews.ToggleLike(review.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LikeResponse{Liked: true, LikeCount: 2}, *res)

	res, err = fx.reviews.ToggleLike(review.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LikeResponse{Liked: false, LikeCount: 1}, *res)

	status, err := fx.reviews.LikeStatus(review.ID, &dto.Viewer{UserID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, dto.LikeResponse{Liked: true, LikeCount: 1}, *status)

	// Like status follows the same visibility as Get.
	_, err = fx.reviews.LikeStatus(pending.ID, &dto.Viewer{UserID: fan.ID})
	assert.ErrorIs(t, err, ErrReviewNotFound)
	_, err = fx.reviews.LikeStatus(pending.ID, &dto.Viewer{UserID: author.ID})
	assert.NoError(t, err)
	_, err = fx.reviews.LikeStatus(pending.ID, &dto.Viewer{UserID: fan.ID, Role: models.RoleModerator})
	assert.NoError(t, err)

	listed, _, _, err := fx.reviews.List(dto.ReviewFilter{}, &dto.Viewer{UserID: second.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].UserLiked)

	_, err = fx.reviews.ToggleLike(pending.ID, fan.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
