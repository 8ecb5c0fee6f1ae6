package repository

import (
	"testing"
	"time"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCommentRepositoryTest(t *testing.T) (CommentRepository, *gorm.DB, *model.User, *model.Product) {
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

	return NewCommentRepository(testDB), testDB, user, product
}

func TestCommentRepository_CreateAndFindByID(t *testing.T) {
	repo, _, user, product := setupCommentRepositoryTest(t)

	comment := &model.Comment{
		UserID:    user.ID,
		ProductID: product.ID,
		Text:      "Great keyboard",
		Rating:    5,
	}
	require.NoError(t, repo.Create(comment))
	require.NotZero(t, comment.ID)

	found, err := repo.FindByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Great keyboard", found.Text)
	assert.Equal(t, 5, found.Rating)

	// Author association is preloaded
	assert.Equal(t, "alice", found.User.Username)
}

func TestCommentRepository_FindByProductID(t *testing.T) {
	repo, testDB, user, product := setupCommentRepositoryTest(t)

	other := &model.User{
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: "hashed-password",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, repo.Create(&model.Comment{UserID: user.ID, ProductID: product.ID, Text: "Nice", Rating: 4}))
	require.NoError(t, repo.Create(&model.Comment{UserID: other.ID, ProductID: product.ID, Text: "Loud", Rating: 2}))

	// Listing by product includes every author
	comments, err := repo.FindByProductID(product.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestCommentRepository_FindByUserID(t *testing.T) {
	repo, testDB, user, product := setupCommentRepositoryTest(t)

	other := &model.User{
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: "hashed-password",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, repo.Create(&model.Comment{UserID: user.ID, ProductID: product.ID, Text: "Nice", Rating: 4}))
	require.NoError(t, repo.Create(&model.Comment{UserID: other.ID, ProductID: product.ID, Text: "Loud", Rating: 2}))

	comments, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice", comments[0].Text)
}

func TestCommentRepository_RatingStatsByProduct(t *testing.T) {
	repo, _, user, product := setupCommentRepositoryTest(t)

	// No comments yet
	stats, err := repo.RatingStatsByProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count)
	assert.Equal(t, float64(0), stats.Average)

	for _, rating := range []int{5, 4, 2} {
		require.NoError(t, repo.Create(&model.Comment{
			UserID:    user.ID,
			ProductID: product.ID,
			Text:      "review",
			Rating:    rating,
		}))
	}

	stats, err = repo.RatingStatsByProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.InDelta(t, 11.0/3.0, stats.Average, 0.0001)
}

func TestCommentRepository_PurgeDeletedBefore(t *testing.T) {
	repo, testDB, user, product := setupCommentRepositoryTest(t)

	comment := &model.Comment{UserID: user.ID, ProductID: product.ID, Text: "old", Rating: 3}
	require.NoError(t, repo.Create(comment))
	require.NoError(t, repo.Delete(comment.ID))

	// Soft-deleted just now: a cutoff in the past must not purge it
	purged, err := repo.PurgeDeletedBefore(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), purged)

	// A future cutoff purges the row for good
	purged, err = repo.PurgeDeletedBefore(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var count int64
	require.NoError(t, testDB.Unscoped().Model(&model.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
