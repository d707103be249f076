package services

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(search, role string, p database.Page) ([]models.UserProfile, int64, error) {
	query := s.db.Model(&models.UserProfile{})
	if term := strings.TrimSpace(search); term != "" {
		query = query.Scopes(database.ILike(term, "email", "username"))
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.UserProfile
	err := query.Order("created_at DESC").Scopes(database.Paginate(p)).Find(&users).Error
	return users, total, err
}

// SetRole changes a user's role. The user is looked up by id, or by email
// when ref is not a UUID.
func (s *UserService) SetRole(ref, role string) (*models.UserProfile, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	var user models.UserProfile
	query := s.db
	if id, err := uuid.Parse(ref); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("email = ?", normalizeEmail(ref))
	}
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return &user, nil
}
