package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultFlags are seeded at startup when missing. Existing values are never
// overwritten.
var DefaultFlags = []models.FeatureFlag{
	{Key: "maintenance_mode", Value: "false", Type: "bool", Audience: models.AudienceAll},
	{Key: "reviews_enabled", Value: "true", Type: "bool", Audience: models.AudienceAll},
	{Key: "company_submissions_enabled", Value: "true", Type: "bool", Audience: models.AudienceAll},
	{Key: "news_enabled", Value: "true", Type: "bool", Audience: models.AudienceAll},
	{Key: "wall_size", Value: "10", Type: "int", Audience: models.AudienceAll},
	{Key: "scraper_enabled", Value: "true", Type: "bool", Audience: models.AudienceAdmin},
}

type FlagService struct {
	db *gorm.DB
}

func NewFlagService(db *gorm.DB) *FlagService {
	return &FlagService{db: db}
}

// Decoded returns the flags visible to the caller as a key -> typed value map.
func (s *FlagService) Decoded(isAdmin bool) (map[string]interface{}, error) {
	var flags []models.FeatureFlag
	query := s.db.Model(&models.FeatureFlag{})
	if !isAdmin {
		query = query.Where("audience = ?", models.AudienceAll)
	}
	if err := query.Find(&flags).Error; err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(flags))
	for _, f := range flags {
		result[f.Key] = decodeFlag(f)
	}
	return result, nil
}

// Bool reads a bool flag, returning fallback when it is missing or malformed.
func (s *FlagService) Bool(key string, fallback bool) bool {
	var flag models.FeatureFlag
	if err := s.db.Where("key = ?", key).First(&flag).Error; err != nil {
		return fallback
	}
	v, err := strconv.ParseBool(flag.Value)
	if err != nil {
		return fallback
	}
	return v
}

// Int reads an int flag, returning fallback when it is missing or malformed.
func (s *FlagService) Int(key string, fallback int) int {
	var flag models.FeatureFlag
	if err := s.db.Where("key = ?", key).First(&flag).Error; err != nil {
		return fallback
	}
	v, err := strconv.Atoi(flag.Value)
	if err != nil {
		return fallback
	}
	return v
}

func decodeFlag(f models.FeatureFlag) interface{} {
	switch f.Type {
	case "bool":
		v, _ := strconv.ParseBool(f.Value)
		return v
	case "int":
		v, _ := strconv.Atoi(f.Value)
		return v
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(f.Value), &v); err != nil {
			return nil
		}
		return v
	}
	return f.Value
}

// Set creates or updates a flag. The value must parse as the flag's type.
func (s *FlagService) Set(key string, req *dto.SetFlagRequest) (*models.FeatureFlag, error) {
	flag := models.FeatureFlag{
		Key:         key,
		Value:       req.Value,
		Type:        req.Type,
		Audience:    req.Audience,
		Description: req.Description,
	}
	if flag.Type == "" {
		flag.Type = "string"
	}
	if flag.Audience == "" {
		flag.Audience = models.AudienceAll
	}
	if err := checkFlagValue(flag.Type, flag.Value); err != nil {
		return nil, err
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "audience", "description", "updated_at"}),
	}).Create(&flag).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save flag: %w", err)
	}

	var saved models.FeatureFlag
	if err := s.db.Where("key = ?", key).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func checkFlagValue(typ, value string) error {
	var err error
	switch typ {
	case "bool":
		_, err = strconv.ParseBool(value)
	case "int":
		_, err = strconv.Atoi(value)
	case "json":
		if !json.Valid([]byte(value)) {
			err = errors.New("invalid json")
		}
	}
	if err != nil {
		return fmt.Errorf("%w: value does not match type %s", ErrInvalidFlag, typ)
	}
	return nil
}

func (s *FlagService) Delete(key string) error {
	result := s.db.Where("key = ?", key).Delete(&models.FeatureFlag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFlagNotFound
	}
	return nil
}

func (s *FlagService) SeedDefaults() error {
	for _, f := range DefaultFlags {
		flag := f
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&flag).Error; err != nil {
			return fmt.Errorf("failed to seed flag %s: %w", f.Key, err)
		}
	}
	return nil
}
