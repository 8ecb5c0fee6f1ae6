package service

import (
	"errors"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrFavoriteAlreadyExists = errors.New("product already in favorites")

type FavoriteService interface {
	GetUserFavorites(userID uint) ([]model.Favorite, error)
	AddFavorite(userID, productID uint) (*model.Favorite, error)
	ToggleFavorite(userID, productID uint) (added bool, err error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	productRepo repository.ProductRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (s *favoriteService) GetUserFavorites(userID uint) ([]model.Favorite, error) {
	logger.Debug("Fetching user favorites", map[string]interface{}{
		"user_id": userID,
	})

	favorites, err := s.favoriteRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User favorites fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(favorites),
	})
	return favorites, nil
}

// AddFavorite creates a favorite without toggle semantics; the unique index
// rejects a second row for the same pair.
func (s *favoriteService) AddFavorite(userID, productID uint) (*model.Favorite, error) {
	logger.Info("Adding favorite", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add favorite: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	favorite := &model.Favorite{
		UserID:    userID,
		ProductID: productID,
	}

	if err := s.favoriteRepo.Create(favorite); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Product already in favorites", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrFavoriteAlreadyExists
		}
		logger.Error("Failed to add favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Favorite added successfully", map[string]interface{}{
		"favorite_id": favorite.ID,
	})
	return favorite, nil
}

// ToggleFavorite flips the favorite state for (user, product). The returned
// flag reports the resulting state: true means a row was created, false
// means the existing row was removed.
func (s *favoriteService) ToggleFavorite(userID, productID uint) (bool, error) {
	logger.Info("Toggling favorite", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot toggle favorite: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return false, ErrProductNotFound
		}
		return false, err
	}

	added, err := s.favoriteRepo.Toggle(userID, productID)
	if err != nil {
		logger.Error("Failed to toggle favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	logger.Info("Favorite toggled successfully", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"added":      added,
	})
	return added, nil
}
