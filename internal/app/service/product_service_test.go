package service

import (
	"testing"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo), testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestProductService_AverageRating(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	user := createTestUser(t, testDB, "alice")

	product := &model.Product{Name: "Keyboard", Price: 100}
	require.NoError(t, productService.CreateProduct(product))

	t.Run("No comments means zero", func(t *testing.T) {
		found, err := productService.GetProductByID(product.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(0), found.AverageRating)
	})

	for _, rating := range []int{5, 4, 2} {
		require.NoError(t, testDB.Create(&model.Comment{
			UserID:    user.ID,
			ProductID: product.ID,
			Text:      "review",
			Rating:    rating,
		}).Error)
	}

	t.Run("Mean of the ratings", func(t *testing.T) {
		found, err := productService.GetProductByID(product.ID)
		require.NoError(t, err)
		assert.InDelta(t, 11.0/3.0, found.AverageRating, 0.0001)
		assert.Len(t, found.Comments, 3)
	})

	t.Run("Computed for listings too", func(t *testing.T) {
		products, err := productService.GetAllProducts()
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.InDelta(t, 11.0/3.0, products[0].AverageRating, 0.0001)
	})
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product := &model.Product{Name: "Keyboard", Price: 100}
	require.NoError(t, productService.CreateProduct(product))

	original, err := productService.GetProductByID(product.ID)
	require.NoError(t, err)

	updated := &model.Product{
		ID:    product.ID,
		Name:  "Keyboard v2",
		Price: 150,
	}
	require.NoError(t, productService.UpdateProduct(updated))

	found, err := productService.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard v2", found.Name)
	assert.Equal(t, float64(150), found.Price)

	// Full replacement must not move the creation timestamp
	assert.Equal(t, original.CreatedAt.Unix(), found.CreatedAt.Unix())
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	err := productService.UpdateProduct(&model.Product{ID: 9999, Name: "Ghost", Price: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_PatchProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product := &model.Product{Name: "Keyboard", Description: "Original", Price: 100}
	require.NoError(t, productService.CreateProduct(product))

	price := 89.5
	patched, err := productService.PatchProduct(product.ID, ProductPatch{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 89.5, patched.Price)
	assert.Equal(t, "Keyboard", patched.Name)
	assert.Equal(t, "Original", patched.Description)
}

func TestProductService_PatchProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	name := "Ghost"
	_, err := productService.PatchProduct(9999, ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product := &model.Product{Name: "Keyboard", Price: 100}
	require.NoError(t, productService.CreateProduct(product))

	require.NoError(t, productService.DeleteProduct(product.ID))

	_, err := productService.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, productService.DeleteProduct(product.ID), ErrProductNotFound)
}
