package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nkuzn/shoply-backend/internal/app/service"
	apperrors "github.com/nkuzn/shoply-backend/internal/errors"
	"github.com/nkuzn/shoply-backend/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{favoriteService: favoriteService}
}

type AddFavoriteRequest struct {
	ProductID uint `json:"product" binding:"required"`
}

// FavoriteProduct is the minimal product projection returned by my_favorites
type FavoriteProduct struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// GetFavorites returns the caller's favorites
// GET /api/v1/favorites
func (ctrl *FavoriteController) GetFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	favorites, err := ctrl.favoriteService.GetUserFavorites(userID)
	if err != nil {
		log.Error("Failed to fetch favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite creates a favorite for the caller (non-toggle path)
// POST /api/v1/favorites
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add favorite request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid favorite data")
		return
	}

	favorite, err := ctrl.favoriteService.AddFavorite(userID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			log.Warn("Product not found for favorite", map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrFavoriteAlreadyExists):
			log.Warn("Product already in favorites", map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.BadRequest(c, apperrors.ResourceAlreadyExists, "Product already in favorites")
		default:
			log.Error("Failed to add favorite", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "Failed to add favorite")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"favorite": favorite,
	})
}

// MyFavorites returns the caller's favorited products as a minimal projection
// GET /api/v1/favorites/my_favorites
func (ctrl *FavoriteController) MyFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	favorites, err := ctrl.favoriteService.GetUserFavorites(userID)
	if err != nil {
		log.Error("Failed to fetch favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch favorites")
		return
	}

	products := make([]FavoriteProduct, 0, len(favorites))
	for _, favorite := range favorites {
		products = append(products, FavoriteProduct{
			ID:       favorite.Product.ID,
			Name:     favorite.Product.Name,
			Price:    favorite.Product.Price,
			ImageURL: favorite.Product.ImageURL,
		})
	}

	log.Info("Favorite products listed successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(products),
	})

	c.JSON(http.StatusOK, products)
}
