package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory SQLite database. A single connection
// keeps the in-memory database alive for the life of the test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Config returns a config suitable for tests.
func Config() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		JWTRefreshExpiry:  24 * time.Hour,
		AdminToken:        "admin-token",
		ReviewDailyLimit:  5,
		CompanyDailyLimit: 3,
		ReportDailyLimit:  10,
		ScraperDelay:      0,
		CORSOrigins:       "*",
	}
}

// CreateUser inserts a user profile with the given role.
func CreateUser(t testing.TB, db *gorm.DB, email, role string) *models.UserProfile {
	t.Helper()
	user := &models.UserProfile{Email: email, Username: email, Role: role, AuthProvider: models.AuthProviderEmail}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

// CreateCompany inserts a company with defaults.
func CreateCompany(t testing.TB, db *gorm.DB, name string) *models.Company {
	t.Helper()
	company := &models.Company{
		Name:        name,
		Description: "A company used in tests",
		Industry:    "Technology",
		Location:    "Berlin",
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatal(err)
	}
	return company
}

// CreateReview inserts a review with the given status and rating.
func CreateReview(t testing.TB, db *gorm.DB, company *models.Company, user *models.UserProfile, rating int, status string) *models.Review {
	t.Helper()
	review := &models.Review{
		CompanyID:        company.ID,
		UserID:           user.ID,
		Rating:           rating,
		Title:            "Decent place",
		Content:          "The management was fine and the pay was okay.",
		Position:         "Engineer",
		EmploymentStatus: "Full-time",
		Status:           status,
	}
	if err := db.Create(review).Error; err != nil {
		t.Fatal(err)
	}
	return review
}

// Token signs an access token for user the same way the auth service does.
func Token(t testing.TB, cfg *config.Config, user *models.UserProfile) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}
