package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService struct {
	db         *gorm.DB
	limits     *RateLimitService
	moderation *ModerationService
}

func NewReviewService(db *gorm.DB, limits *RateLimitService, moderation *ModerationService) *ReviewService {
	return &ReviewService{db: db, limits: limits, moderation: moderation}
}

// visibleTo restricts a review query to what viewer may see: moderators see
// everything, authors also see their own unapproved reviews, everyone else
// only approved ones.
func visibleTo(viewer *dto.Viewer) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case viewer.IsModerator():
			return db
		case viewer != nil:
			return db.Where("(reviews.status = ? OR reviews.user_id = ?)", models.ReviewApproved, viewer.UserID)
		default:
			return db.Where("reviews.status = ?", models.ReviewApproved)
		}
	}
}

func (s *ReviewService) List(f dto.ReviewFilter, viewer *dto.Viewer) ([]dto.ReviewResponse, int64, database.Page, error) {
	page := database.NewPage(f.Page, f.Limit)

	query := s.db.Model(&models.Review{}).Scopes(visibleTo(viewer))
	if f.CompanyID != nil {
		query = query.Where("reviews.company_id = ?", *f.CompanyID)
	}
	if f.UserID != nil {
		query = query.Where("reviews.user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		if !models.ValidReviewStatus(f.Status) {
			return nil, 0, page, ErrInvalidStatus
		}
		query = query.Where("reviews.status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, page, err
	}

	var reviews []models.Review
	if err := query.Preload("Company").
		Order("reviews.created_at DESC").Order("reviews.id").
		Scopes(database.Paginate(page)).
		Find(&reviews).Error; err != nil {
		return nil, 0, page, err
	}

	out, err := s.withLikes(reviews, viewer)
	if err != nil {
		return nil, 0, page, err
	}
	return out, total, page, nil
}

func (s *ReviewService) withLikes(reviews []models.Review, viewer *dto.Viewer) ([]dto.ReviewResponse, error) {
	liked := map[uuid.UUID]bool{}
	if viewer != nil && len(reviews) > 0 {
		ids := make([]uuid.UUID, len(reviews))
		for i, r := range reviews {
			ids[i] = r.ID
		}
		var likedIDs []uuid.UUID
		if err := s.db.Model(&models.ReviewLike{}).
			Where("user_id = ? AND review_id IN ?", viewer.UserID, ids).
			Pluck("review_id", &likedIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	out := make([]dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = dto.ReviewResponse{Review: r, UserLiked: liked[r.ID]}
	}
	return out, nil
}

func (s *ReviewService) Get(id uuid.UUID, viewer *dto.Viewer) (*dto.ReviewResponse, error) {
	var review models.Review
	if err := s.db.Scopes(visibleTo(viewer)).Preload("Company").First(&review, "reviews.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	out, err := s.withLikes([]models.Review{review}, viewer)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Create stores a new pending review. Content that trips the filter is
// still stored, flagged with the filter's reason for moderators.
func (s *ReviewService) Create(userID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	review := models.Review{
		CompanyID:         req.CompanyID,
		UserID:            userID,
		Rating:            req.Rating,
		Title:             strings.TrimSpace(req.Title),
		Content:           strings.TrimSpace(req.Content),
		Pros:              strings.TrimSpace(req.Pros),
		Cons:              strings.TrimSpace(req.Cons),
		Position:          strings.TrimSpace(req.Position),
		EmploymentStatus:  req.EmploymentStatus,
		IsCurrentEmployee: req.IsCurrentEmployee,
		ReviewerName:      strings.TrimSpace(req.ReviewerName),
		ReviewerEmail:     strings.TrimSpace(req.ReviewerEmail),
		Status:            models.ReviewPending,
	}
	review.SpamReason = s.moderation.ScreenReview(&review)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Company{}).Where("id = ?", req.CompanyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrCompanyNotFound
		}
		if err := s.limits.Check(tx, userID, LimitReview); err != nil {
			return err
		}
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update edits the caller's own review and sends it back to moderation.
func (s *ReviewService) Update(id, userID uuid.UUID, req *dto.UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if review.UserID != userID {
			return ErrForbidden
		}
		wasApproved := review.Status == models.ReviewApproved

		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Title != nil {
			review.Title = strings.TrimSpace(*req.Title)
		}
		if req.Content != nil {
			review.Content = strings.TrimSpace(*req.Content)
		}
		if req.Pros != nil {
			review.Pros = strings.TrimSpace(*req.Pros)
		}
		if req.Cons != nil {
			review.Cons = strings.TrimSpace(*req.Cons)
		}
		if req.Position != nil {
			review.Position = strings.TrimSpace(*req.Position)
		}
		if req.EmploymentStatus != nil {
			review.EmploymentStatus = *req.EmploymentStatus
		}
		if req.IsCurrentEmployee != nil {
			review.IsCurrentEmployee = *req.IsCurrentEmployee
		}

		review.Status = models.ReviewPending
		review.SpamReason = s.moderation.ScreenReview(&review)
		review.ModerationNote = ""
		review.ModeratedAt = nil
		review.ModeratedBy = nil

		if err := tx.Omit("Company").Save(&review).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		if wasApproved {
			return RecalculateRating(tx, review.CompanyID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete soft deletes a review and removes its likes, reports and history.
// Only its author or an admin may delete it.
func (s *ReviewService) Delete(id, userID uuid.UUID, role string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if review.UserID != userID && role != models.RoleAdmin {
			return ErrForbidden
		}

		if err := tx.Where("review_id = ?", id).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&models.ReviewReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&models.ModerationHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		if review.Status == models.ReviewApproved {
			return RecalculateRating(tx, review.CompanyID)
		}
		return nil
	})
}

// ToggleLike likes an approved review, or removes the like if userID
// already liked it.
func (s *ReviewService) ToggleLike(reviewID, userID uuid.UUID) (*dto.LikeResponse, error) {
	var resp dto.LikeResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.Select("id", "status").
			First(&review, "id = ? AND status = ?", reviewID, models.ReviewApproved).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		result := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).Delete(&models.ReviewLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := tx.Create(&models.ReviewLike{ReviewID: reviewID, UserID: userID}).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
			}
			resp.Liked = true
		}

		if err := syncLikeCounts(tx, []uuid.UUID{reviewID}); err != nil {
			return err
		}
		return tx.Model(&models.Review{}).Where("id = ?", reviewID).Pluck("like_count", &resp.LikeCount).Error
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// LikeStatus reports whether viewer liked the review. Reviews the viewer may
// not see are reported as missing.
func (s *ReviewService) LikeStatus(reviewID uuid.UUID, viewer *dto.Viewer) (*dto.LikeResponse, error) {
	if viewer == nil {
		return nil, ErrReviewNotFound
	}
	var review models.Review
	if err := s.db.Scopes(visibleTo(viewer)).Select("id", "like_count").
		First(&review, "reviews.id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.ReviewLike{}).
		Where("review_id = ? AND user_id = ?", reviewID, viewer.UserID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: count > 0, LikeCount: review.LikeCount}, nil
}

// syncLikeCounts sets like_count on each review to its number of like rows.
func syncLikeCounts(tx *gorm.DB, reviewIDs []uuid.UUID) error {
	return tx.Model(&models.Review{}).
		Where("id IN ?", reviewIDs).
		UpdateColumn("like_count", gorm.Expr("(SELECT COUNT(*) FROM review_likes WHERE review_likes.review_id = reviews.id)")).Error
}
