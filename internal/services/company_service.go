package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const wallMinReviews = 3

var companySortColumns = map[string]string{
	"name":           "name",
	"average_rating": "average_rating",
	"rating":         "average_rating",
	"total_reviews":  "total_reviews",
	"created_at":     "created_at",
}

type CompanyService struct {
	db     *gorm.DB
	limits *RateLimitService
}

func NewCompanyService(db *gorm.DB, limits *RateLimitService) *CompanyService {
	return &CompanyService{db: db, limits: limits}
}

func (s *CompanyService) List(f dto.CompanyFilter) ([]models.Company, int64, database.Page, error) {
	page := database.NewPage(f.Page, f.Limit)

	query := s.db.Model(&models.Company{})
	if term := strings.TrimSpace(f.Search); term != "" {
		query = query.Scopes(database.ILike(term, "name"))
	}
	if f.Industry != "" {
		query = query.Where("industry = ?", f.Industry)
	}
	if f.Location != "" {
		query = query.Scopes(database.ILike(f.Location, "location"))
	}
	if f.MinRating > 0 {
		query = query.Where("average_rating >= ?", f.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, page, err
	}

	column, ok := companySortColumns[f.SortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if strings.EqualFold(f.Order, "desc") {
		direction = "DESC"
	}

	var companies []models.Company
	if err := query.Order(column + " " + direction).Order("id").
		Scopes(database.Paginate(page)).
		Find(&companies).Error; err != nil {
		return nil, 0, page, err
	}
	return companies, total, page, nil
}

func (s *CompanyService) Get(id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (s *CompanyService) Create(userID uuid.UUID, req *dto.CreateCompanyRequest) (*models.Company, error) {
	company := models.Company{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Industry:    req.Industry,
		Location:    strings.TrimSpace(req.Location),
		Website:     req.Website,
		Size:        req.Size,
		LogoURL:     req.LogoURL,
		CreatedBy:   &userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.limits.Check(tx, userID, LimitCompany); err != nil {
			return err
		}

		if err := checkNameFree(tx, company.Name, uuid.Nil); err != nil {
			return err
		}

		if err := tx.Create(&company).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCompanyExists
			}
			return fmt.Errorf("failed to create company: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Update applies the whitelisted fields. Only the creator or an admin may
// update a company.
func (s *CompanyService) Update(id, userID uuid.UUID, role string, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	isCreator := company.CreatedBy != nil && *company.CreatedBy == userID
	if !isCreator && role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if len(updates) == 0 {
		return company, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if name, ok := updates["name"].(string); ok {
			if err := checkNameFree(tx, name, id); err != nil {
				return err
			}
		}
		if err := tx.Model(company).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCompanyExists
			}
			return fmt.Errorf("failed to update company: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// checkNameFree returns ErrCompanyExists when another company, deleted or
// not, already uses name ignoring case.
func checkNameFree(tx *gorm.DB, name string, except uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Company{}).Unscoped().
		Where("LOWER(name) = ? AND id <> ?", strings.ToLower(name), except).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrCompanyExists
	}
	return nil
}

// Delete soft deletes the company and removes its reviews along with their
// likes, reports and moderation history.
func (s *CompanyService) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Company{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCompanyNotFound
		}

		reviewIDs := tx.Model(&models.Review{}).Select("id").Where("company_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.ReviewReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.ModerationHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.NewsArticle{}).Where("company_id = ?", id).Update("company_id", nil).Error
	})
}

func (s *CompanyService) SetVerification(id uuid.UUID, status string) (*models.Company, error) {
	company, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"verification_status": status,
		"verified":            status == models.VerificationVerified,
		"verification_date":   nil,
	}
	if status == models.VerificationVerified {
		updates["verification_date"] = time.Now()
	}

	if err := s.db.Model(company).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update verification: %w", err)
	}
	return s.Get(id)
}

// WallOfFame returns the best rated companies with enough reviews to count.
func (s *CompanyService) WallOfFame(limit int) ([]models.Company, error) {
	return s.wall(limit, "DESC")
}

// WallOfShame returns the worst rated companies with enough reviews to count.
func (s *CompanyService) WallOfShame(limit int) ([]models.Company, error) {
	return s.wall(limit, "ASC")
}

func (s *CompanyService) wall(limit int, direction string) ([]models.Company, error) {
	if limit < 1 || limit > database.MaxPageSize {
		limit = 10
	}
	var companies []models.Company
	err := s.db.Where("total_reviews >= ?", wallMinReviews).
		Order("average_rating " + direction).
		Order("total_reviews DESC").
		Limit(limit).
		Find(&companies).Error
	return companies, err
}

// RecalculateRating recomputes average_rating and total_reviews from the
// company's approved reviews. Call it with the transaction that changed a
// review.
func RecalculateRating(tx *gorm.DB, companyID uuid.UUID) error {
	var agg struct {
		Avg   float64
		Total int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("company_id = ? AND status = ?", companyID, models.ReviewApproved).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return tx.Model(&models.Company{}).Where("id = ?", companyID).Updates(map[string]interface{}{
		"average_rating": math.Round(agg.Avg*100) / 100,
		"total_reviews":  agg.Total,
	}).Error
}
