package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	fx := newFixture(t)
	auth := NewAuthService(fx.db, fx.cfg)

	res, err := auth.Register(&dto.RegisterRequest{Email: " Jane@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, "jane", res.User.Username)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.RefreshToken)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(res.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(fx.cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims["sub"])
	assert.Equal(t, models.RoleUser, claims["role"])

	_, err = auth.Register(&dto.RegisterRequest{Email: "JANE@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = auth.Login(&dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := auth.Login(&dto.LoginRequest{Email: "JANE@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestRefreshRotatesToken(t *testing.T) {
	fx := newFixture(t)
	auth := NewAuthService(fx.db, fx.cfg)

	res, err := auth.Register(&dto.RegisterRequest{Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	rotated, err := auth.Refresh(&dto.RefreshRequest{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, rotated.RefreshToken)

	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: res.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, auth.Logout(&dto.LogoutRequest{RefreshToken: rotated.RefreshToken}))
	_, err = auth.Refresh(&dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConcurrentRefreshSucceedsOnce(t *testing.T) {
	fx := newFixture(t)
	auth := NewAuthService(fx.db, fx.cfg)

	res, err := auth.Register(&dto.RegisterRequest{Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	const attempts = 8
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := auth.Refresh(&dto.RefreshRequest{RefreshToken: res.RefreshToken}); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestUpdateProfile(t *testing.T) {
	fx := newFixture(t)
	auth := NewAuthService(fx.db, fx.cfg)
	user := testutil.CreateUser(t, fx.db, "jane@example.com", models.RoleUser)

	name := "  Jane Doe "
	updated, err := auth.UpdateProfile(user.ID, &dto.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.FullName)
	assert.Equal(t, user.Username, updated.Username)
}

func TestDeleteAccount(t *testing.T) {
	fx := newFixture(t)
	auth := NewAuthService(fx.db, fx.cfg)

	res, err := auth.Register(&dto.RegisterRequest{Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	userID := res.User.ID

	author := testutil.CreateUser(t, fx.db, "author@example.com", models.RoleUser)
	company := testutil.CreateCompany(t, fx.db, "Acme")
	liked := testutil.CreateReview(t, fx.db, company, author, 4, models.ReviewApproved)
	_, err = fx.reviews.ToggleLike(liked.ID, userID)
	require.NoError(t, err)
	_, err = fx.moderation.CreateReport(userID, liked.ID, &dto.CreateReportRequest{Reason: "odd"})
	require.NoError(t, err)
	own, err := fx.reviews.Create(userID, validReview(company.ID))
	require.NoError(t, err)

	assert.ErrorIs(t, auth.DeleteAccount(userID, ""), ErrPasswordRequired)
	assert.ErrorIs(t, auth.DeleteAccount(userID, "nope"), ErrInvalidCredentials)
	require.NoError(t, auth.DeleteAccount(userID, "correct-horse"))

	_, err = auth.Me(userID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var review models.Review
	require.NoError(t, fx.db.First(&review, "id = ?", liked.ID).Error)
	assert.Zero(t, review.LikeCount)

	var reports, tokens, reviews int64
	fx.db.Model(&models.ReviewReport{}).Where("reporter_id = ?", userID).Count(&reports)
	fx.db.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Count(&tokens)
	fx.db.Model(&models.Review{}).Where("id = ?", own.ID).Count(&reviews)
	assert.Zero(t, reports)
	assert.Zero(t, tokens)
	assert.Equal(t, int64(1), reviews)

	_, err = auth.Login(&dto.LoginRequest{Email: "jane@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Register(&dto.RegisterRequest{Email: "jane@example.com", Password: "fresh-start"})
	assert.NoError(t, err)
}

func TestGoogleSignIn(t *testing.T) {
	fx := newFixture(t)
	fx.cfg.GoogleClientID = "client-123"
	auth := NewAuthService(fx.db, fx.cfg)
	jwks := newTestJWKS(t)
	auth.googleJWKS = newGoogleJWKSClient(jwks.URL())

	existing := testutil.CreateUser(t, fx.db, "linked@example.com", models.RoleModerator)

	res, err := auth.GoogleSignIn(context.Background(), &dto.GoogleSignInRequest{
		IDToken: jwks.sign(t, googleClaims("sub-1", "linked@example.com", true, "client-123")),
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.User.ID)
	assert.Equal(t, models.RoleModerator, res.User.Role)

	res, err = auth.GoogleSignIn(context.Background(), &dto.GoogleSignInRequest{
		IDToken: jwks.sign(t, googleClaims("sub-2", "new@example.com", true, "client-123")),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AuthProviderGoogle, res.User.AuthProvider)
	assert.Equal(t, "new", res.User.Username)

	_, err = auth.GoogleSignIn(context.Background(), &dto.GoogleSignInRequest{
		IDToken: jwks.sign(t, googleClaims("sub-3", "unverified@example.com", false, "client-123")),
	})
	assert.ErrorIs(t, err, ErrGoogleSignIn)

	_, err = auth.GoogleSignIn(context.Background(), &dto.GoogleSignInRequest{})
	assert.ErrorIs(t, err, ErrGoogleSignIn)
}
