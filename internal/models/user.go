package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

// UserProfile is an account plus its public profile fields.
type UserProfile struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	Username      string         `gorm:"size:50" json:"username"`
	FullName      string         `gorm:"size:100" json:"full_name"`
	AvatarURL     string         `gorm:"size:500" json:"avatar_url"`
	Role          string         `gorm:"size:20;not null;default:'user';index" json:"role"`
	AuthProvider  string         `gorm:"size:20;not null;default:'email'" json:"auth_provider"`
	GoogleSubject *string        `gorm:"size:255;index" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *UserProfile) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// ValidRole reports whether r is an assignable role.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}
