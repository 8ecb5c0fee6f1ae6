package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/internal/app/service"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/nkuzn/shoply-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFavoriteControllerTest(t *testing.T) (*FavoriteController, *gin.Engine, service.FavoriteService, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	favoriteRepo := repository.NewFavoriteRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)
	favoriteController := NewFavoriteController(favoriteService)

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:     "Mechanical Keyboard",
		Price:    129.99,
		ImageURL: "https://cdn.example.com/kb.jpg",
	}
	require.NoError(t, testDB.Create(product).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Set(middleware.UserRoleKey, user.Role)
		c.Next()
	})

	return favoriteController, router, favoriteService, user, product
}

func TestFavoriteController_AddFavorite(t *testing.T) {
	controller, router, _, _, product := setupFavoriteControllerTest(t)
	router.POST("/favorites", controller.AddFavorite)

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, router, "/favorites", AddFavoriteRequest{ProductID: product.ID})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		favoriteData := response["favorite"].(map[string]interface{})
		assert.Equal(t, float64(product.ID), favoriteData["product_id"])
	})

	t.Run("Duplicate", func(t *testing.T) {
		w := postJSON(t, router, "/favorites", AddFavoriteRequest{ProductID: product.ID})

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "RESOURCE_ALREADY_EXISTS", response["error"])
	})

	t.Run("Unknown product", func(t *testing.T) {
		w := postJSON(t, router, "/favorites", AddFavoriteRequest{ProductID: 9999})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFavoriteController_GetFavorites(t *testing.T) {
	controller, router, favoriteService, user, product := setupFavoriteControllerTest(t)
	router.GET("/favorites", controller.GetFavorites)

	_, err := favoriteService.AddFavorite(user.ID, product.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestFavoriteController_MyFavorites(t *testing.T) {
	controller, router, favoriteService, user, product := setupFavoriteControllerTest(t)
	router.GET("/favorites/my_favorites", controller.MyFavorites)

	t.Run("Empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/favorites/my_favorites", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	_, err := favoriteService.AddFavorite(user.ID, product.ID)
	require.NoError(t, err)

	t.Run("Minimal product projection", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/favorites/my_favorites", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
		require.Len(t, products, 1)

		assert.Equal(t, float64(product.ID), products[0]["id"])
		assert.Equal(t, "Mechanical Keyboard", products[0]["name"])
		assert.Equal(t, 129.99, products[0]["price"])
		assert.Equal(t, "https://cdn.example.com/kb.jpg", products[0]["image_url"])

		// Nothing beyond the four projected fields
		assert.Len(t, products[0], 4)
	})
}
