package repository

import (
	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	FindByUserID(userID uint) ([]model.Favorite, error)
	FindByUserAndProduct(userID, productID uint) (*model.Favorite, error)
	Toggle(userID, productID uint) (added bool, err error)
	Delete(userID, productID uint) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	logger.Debug("Creating favorite in database", map[string]interface{}{
		"user_id":    favorite.UserID,
		"product_id": favorite.ProductID,
	})

	if err := r.db.Create(favorite).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id":    favorite.UserID,
			"product_id": favorite.ProductID,
		})
		return err
	}

	logger.Debug("Favorite created in database", map[string]interface{}{
		"favorite_id": favorite.ID,
	})
	return nil
}

func (r *favoriteRepository) FindByUserID(userID uint) ([]model.Favorite, error) {
	logger.Debug("Finding favorites by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var favorites []model.Favorite
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		logger.Error("Failed to find favorites by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Favorites found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(favorites),
	})
	return favorites, nil
}

func (r *favoriteRepository) FindByUserAndProduct(userID, productID uint) (*model.Favorite, error) {
	logger.Debug("Finding favorite by user and product in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	var favorite model.Favorite
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&favorite).Error
	if err != nil {
		return nil, err
	}

	return &favorite, nil
}

// Toggle flips the favorite state for a (user, product) pair inside a single
// transaction. The insert uses ON CONFLICT DO NOTHING against the composite
// unique index, so two concurrent toggles cannot create duplicate rows: the
// request that loses the insert observes zero affected rows and deletes.
func (r *favoriteRepository) Toggle(userID, productID uint) (bool, error) {
	logger.Debug("Toggling favorite in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	var added bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		favorite := &model.Favorite{
			UserID:    userID,
			ProductID: productID,
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			added = true
			return nil
		}

		// Row already existed: the toggle removes it
		return tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&model.Favorite{}).Error
	})
	if err != nil {
		logger.Error("Failed to toggle favorite in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	logger.Debug("Favorite toggled in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"added":      added,
	})
	return added, nil
}

func (r *favoriteRepository) Delete(userID, productID uint) error {
	logger.Debug("Deleting favorite from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Favorite{}).Error; err != nil {
		logger.Error("Failed to delete favorite from database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	return nil
}
