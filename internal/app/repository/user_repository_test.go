package repository

import (
	"testing"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserRepositoryTest(t *testing.T) UserRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewUserRepository(testDB)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-password",
		Role:         model.RoleUser,
	}
	require.NoError(t, repo.Create(user))
	require.NotZero(t, user.ID)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byUsername, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	_, err := repo.FindByUsername("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	require.NoError(t, repo.Create(&model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-password",
	}))

	err := repo.Create(&model.User{
		Username:     "alice",
		Email:        "alice2@example.com",
		PasswordHash: "hashed-password",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_Update(t *testing.T) {
	repo := setupUserRepositoryTest(t)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-password",
		Role:         model.RoleUser,
	}
	require.NoError(t, repo.Create(user))

	user.Role = model.RoleAdmin
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, found.Role)
	assert.True(t, found.IsAdmin())
}
