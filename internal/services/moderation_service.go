package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationService owns every review status change and the user report
// queue.
type ModerationService struct {
	db     *gorm.DB
	limits *RateLimitService
	filter *ContentFilter
}

func NewModerationService(db *gorm.DB, limits *RateLimitService) *ModerationService {
	return &ModerationService{db: db, limits: limits, filter: NewContentFilter()}
}

// ScreenReview returns the content filter reason for r, or "".
func (s *ModerationService) ScreenReview(r *models.Review) string {
	return s.filter.Review(r)
}

func (s *ModerationService) Filter() *ContentFilter {
	return s.filter
}

// ListQueue lists reviews for moderators; status defaults to pending.
func (s *ModerationService) ListQueue(status string, flaggedOnly bool, p database.Page) ([]models.Review, int64, error) {
	if status == "" {
		status = models.ReviewPending
	}
	if !models.ValidReviewStatus(status) {
		return nil, 0, ErrInvalidStatus
	}

	query := s.db.Model(&models.Review{}).Where("status = ?", status)
	if flaggedOnly {
		query = query.Where("spam_reason <> ''")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.Preload("Company").
		Order("created_at ASC").Order("id").
		Scopes(database.Paginate(p)).
		Find(&reviews).Error
	return reviews, total, err
}

// Moderate sets a review's status, records the change and keeps the
// company rating in sync.
func (s *ModerationService) Moderate(reviewID, moderatorID uuid.UUID, status, note string) (*models.Review, error) {
	if !models.ValidReviewStatus(status) {
		return nil, ErrInvalidStatus
	}

	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		return moderate(tx, &review, moderatorID, status, note, true)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// BulkModerate applies one status to many reviews in a single transaction.
// Unknown IDs are reported back rather than failing the batch.
func (s *ModerationService) BulkModerate(reviewIDs []uuid.UUID, moderatorID uuid.UUID, status, note string) (*dto.BulkModerateResponse, error) {
	if !models.ValidReviewStatus(status) {
		return nil, ErrInvalidStatus
	}

	resp := &dto.BulkModerateResponse{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var reviews []models.Review
		if err := tx.Where("id IN ?", reviewIDs).Find(&reviews).Error; err != nil {
			return err
		}

		found := make(map[uuid.UUID]bool, len(reviews))
		touched := map[uuid.UUID]bool{}
		for i := range reviews {
			r := &reviews[i]
			found[r.ID] = true
			if r.Status == models.ReviewApproved || status == models.ReviewApproved {
				touched[r.CompanyID] = true
			}
			if err := moderate(tx, r, moderatorID, status, note, false); err != nil {
				return err
			}
			resp.Updated++
		}
		for companyID := range touched {
			if err := RecalculateRating(tx, companyID); err != nil {
				return err
			}
		}
		for _, id := range reviewIDs {
			if !found[id] {
				resp.Missing = append(resp.Missing, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func moderate(tx *gorm.DB, review *models.Review, moderatorID uuid.UUID, status, note string, recalc bool) error {
	previous := review.Status
	now := time.Now()

	if err := tx.Model(review).Updates(map[string]interface{}{
		"status":          status,
		"moderation_note": strings.TrimSpace(note),
		"moderated_at":    now,
		"moderated_by":    moderatorID,
	}).Error; err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	review.Status = status
	review.ModerationNote = strings.TrimSpace(note)
	review.ModeratedAt = &now
	review.ModeratedBy = &moderatorID

	if err := tx.Create(&models.ModerationHistory{
		ReviewID:       review.ID,
		ModeratorID:    moderatorID,
		PreviousStatus: previous,
		NewStatus:      status,
		Note:           strings.TrimSpace(note),
	}).Error; err != nil {
		return fmt.Errorf("failed to record moderation history: %w", err)
	}

	if recalc && (previous == models.ReviewApproved || status == models.ReviewApproved) {
		return RecalculateRating(tx, review.CompanyID)
	}
	return nil
}

func (s *ModerationService) History(reviewID uuid.UUID) ([]models.ModerationHistory, error) {
	var history []models.ModerationHistory
	err := s.db.Where("review_id = ?", reviewID).Order("created_at ASC").Find(&history).Error
	return history, err
}

// CreateReport files a report against a visible review. A user may report
// a given review once.
func (s *ModerationService) CreateReport(reporterID, reviewID uuid.UUID, req *dto.CreateReportRequest) (*models.ReviewReport, error) {
	report := models.ReviewReport{
		ReporterID: reporterID,
		ReviewID:   reviewID,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     models.ReportPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Review{}).
			Where("id = ? AND (status = ? OR user_id = ?)", reviewID, models.ReviewApproved, reporterID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrReviewNotFound
		}

		if err := tx.Model(&models.ReviewReport{}).
			Where("reporter_id = ? AND review_id = ?", reporterID, reviewID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyReported
		}

		if err := s.limits.Check(tx, reporterID, LimitReport); err != nil {
			return err
		}
		if err := tx.Create(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReported
			}
			return fmt.Errorf("failed to create report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ModerationService) ListReports(status string, p database.Page) ([]models.ReviewReport, int64, error) {
	var reports []models.ReviewReport
	var total int64

	query := s.db.Model(&models.ReviewReport{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Scopes(database.Paginate(p)).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ModerationService) ActionReport(reportID uuid.UUID, req *dto.ActionReportRequest) error {
	switch req.Status {
	case models.ReportReviewed, models.ReportActioned, models.ReportDismissed:
	default:
		return ErrInvalidStatus
	}

	result := s.db.Model(&models.ReviewReport{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"admin_note": req.AdminNote,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
