package repository

import (
	"testing"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFavoriteRepositoryTest(t *testing.T) (FavoriteRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-password",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:  "Mechanical Keyboard",
		Price: 129.99,
	}
	require.NoError(t, testDB.Create(product).Error)

	return NewFavoriteRepository(testDB), user, product
}

func TestFavoriteRepository_Toggle(t *testing.T) {
	repo, user, product := setupFavoriteRepositoryTest(t)

	// First toggle adds
	added, err := repo.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, added)

	favorite, err := repo.FindByUserAndProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, favorite.ProductID)

	// Second toggle removes
	added, err = repo.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = repo.FindByUserAndProduct(user.ID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Third toggle adds again
	added, err = repo.Toggle(user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestFavoriteRepository_Create_Duplicate(t *testing.T) {
	repo, user, product := setupFavoriteRepositoryTest(t)

	err := repo.Create(&model.Favorite{UserID: user.ID, ProductID: product.ID})
	require.NoError(t, err)

	// The composite unique index rejects a second row for the same pair
	err = repo.Create(&model.Favorite{UserID: user.ID, ProductID: product.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFavoriteRepository_FindByUserID(t *testing.T) {
	repo, user, product := setupFavoriteRepositoryTest(t)

	favorites, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	require.NoError(t, repo.Create(&model.Favorite{UserID: user.ID, ProductID: product.ID}))

	favorites, err = repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)

	// Product association is preloaded for the listing
	assert.Equal(t, "Mechanical Keyboard", favorites[0].Product.Name)
}

func TestFavoriteRepository_Delete(t *testing.T) {
	repo, user, product := setupFavoriteRepositoryTest(t)

	require.NoError(t, repo.Create(&model.Favorite{UserID: user.ID, ProductID: product.ID}))
	require.NoError(t, repo.Delete(user.ID, product.ID))

	_, err := repo.FindByUserAndProduct(user.ID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
