package repository

import (
	"time"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"gorm.io/gorm"
)

// RatingStats aggregates comment ratings for a product
type RatingStats struct {
	Count   int64
	Average float64
}

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id uint) (*model.Comment, error)
	FindByProductID(productID uint) ([]model.Comment, error)
	FindByUserID(userID uint) ([]model.Comment, error)
	Update(comment *model.Comment) error
	Delete(id uint) error
	RatingStatsByProduct(productID uint) (RatingStats, error)
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"user_id":    comment.UserID,
		"product_id": comment.ProductID,
		"rating":     comment.Rating,
	})

	if err := r.db.Create(comment).Error; err != nil {
		logger.Error("Failed to create comment in database", err, map[string]interface{}{
			"user_id":    comment.UserID,
			"product_id": comment.ProductID,
		})
		return err
	}

	logger.Debug("Comment created in database", map[string]interface{}{
		"comment_id": comment.ID,
	})
	return nil
}

func (r *commentRepository) FindByID(id uint) (*model.Comment, error) {
	logger.Debug("Finding comment by ID in database", map[string]interface{}{
		"comment_id": id,
	})

	var comment model.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		logger.Error("Failed to find comment by ID in database", err, map[string]interface{}{
			"comment_id": id,
		})
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepository) FindByProductID(productID uint) ([]model.Comment, error) {
	logger.Debug("Finding comments by product ID in database", map[string]interface{}{
		"product_id": productID,
	})

	var comments []model.Comment
	err := r.db.Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find comments by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Comments found by product ID in database", map[string]interface{}{
		"product_id": productID,
		"count":      len(comments),
	})
	return comments, nil
}

func (r *commentRepository) FindByUserID(userID uint) ([]model.Comment, error) {
	logger.Debug("Finding comments by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var comments []model.Comment
	err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find comments by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Comments found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(comments),
	})
	return comments, nil
}

func (r *commentRepository) Update(comment *model.Comment) error {
	logger.Debug("Updating comment in database", map[string]interface{}{
		"comment_id": comment.ID,
	})

	if err := r.db.Save(comment).Error; err != nil {
		logger.Error("Failed to update comment in database", err, map[string]interface{}{
			"comment_id": comment.ID,
		})
		return err
	}

	return nil
}

func (r *commentRepository) Delete(id uint) error {
	logger.Debug("Deleting comment from database", map[string]interface{}{
		"comment_id": id,
	})

	if err := r.db.Delete(&model.Comment{}, id).Error; err != nil {
		logger.Error("Failed to delete comment from database", err, map[string]interface{}{
			"comment_id": id,
		})
		return err
	}

	return nil
}

// RatingStatsByProduct aggregates in SQL so callers like the catalog export
// do not need the full comment set loaded.
func (r *commentRepository) RatingStatsByProduct(productID uint) (RatingStats, error) {
	var stats RatingStats

	err := r.db.Model(&model.Comment{}).
		Where("product_id = ?", productID).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate comment ratings", err, map[string]interface{}{
			"product_id": productID,
		})
		return RatingStats{}, err
	}

	return stats, nil
}

// PurgeDeletedBefore hard-deletes comments that were soft-deleted before the
// cutoff. Used by the scheduled purge job.
func (r *commentRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.Comment{})
	if res.Error != nil {
		logger.Error("Failed to purge soft-deleted comments", res.Error)
		return 0, res.Error
	}

	logger.Debug("Purged soft-deleted comments", map[string]interface{}{
		"count": res.RowsAffected,
	})
	return res.RowsAffected, nil
}
