package service

import (
	"testing"
	"time"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/nkuzn/shoply-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	return authService, userRepo
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, err := authService.Register("alice", "alice@example.com", "correcthorsebattery", "correcthorsebattery")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)

	// Password is stored as a bcrypt hash
	assert.NotEqual(t, "correcthorsebattery", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$2a$")
}

func TestAuthService_Register_ValidationOrder(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register("bob", "bob@example.com", "correcthorsebattery", "correcthorsebattery")
	require.NoError(t, err)

	tests := []struct {
		name        string
		username    string
		email       string
		password    string
		password2   string
		wantField   string
		wantMessage string
	}{
		{
			name:        "Password confirmation mismatch",
			username:    "carol",
			email:       "carol@example.com",
			password:    "correcthorsebattery",
			password2:   "somethingelse1234",
			wantField:   "password",
			wantMessage: "Password fields didn't match.",
		},
		{
			// Mismatch wins even when the password also violates policy
			name:        "Mismatch checked before policy",
			username:    "carol",
			email:       "carol@example.com",
			password:    "short",
			password2:   "different",
			wantField:   "password",
			wantMessage: "Password fields didn't match.",
		},
		{
			name:      "Password too short",
			username:  "carol",
			email:     "carol@example.com",
			password:  "short",
			password2: "short",
			wantField: "password",
		},
		{
			name:      "Password too common",
			username:  "carol",
			email:     "carol@example.com",
			password:  "password123",
			password2: "password123",
			wantField: "password",
		},
		{
			name:      "Password too similar to username",
			username:  "carolinesmith",
			email:     "carol@example.com",
			password:  "carolinesmith1",
			password2: "carolinesmith1",
			wantField: "password",
		},
		{
			// Policy runs before the email-required check
			name:      "Missing email with bad password reports password",
			username:  "carol",
			email:     "",
			password:  "short",
			password2: "short",
			wantField: "password",
		},
		{
			name:        "Missing email",
			username:    "carol",
			email:       "",
			password:    "correcthorsebattery",
			password2:   "correcthorsebattery",
			wantField:   "email",
			wantMessage: "This field is required.",
		},
		{
			name:        "Duplicate username",
			username:    "bob",
			email:       "bob2@example.com",
			password:    "correcthorsebattery",
			password2:   "correcthorsebattery",
			wantField:   "username",
			wantMessage: "A user with that username already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := authService.Register(tt.username, tt.email, tt.password, tt.password2)
			require.Error(t, err)
			assert.Nil(t, user)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, validationErr.Message)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register("alice", "alice@example.com", "correcthorsebattery", "correcthorsebattery")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "Valid credentials",
			username: "alice",
			password: "correcthorsebattery",
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			username: "alice",
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Unknown user",
			username: "nobody",
			password: "correcthorsebattery",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.username, user.Username)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	authService, userRepo := setupAuthServiceTest(t)

	user, err := authService.Register("alice", "alice@example.com", "correcthorsebattery", "correcthorsebattery")
	require.NoError(t, err)

	_, tokens, err := authService.Login("alice", "correcthorsebattery")
	require.NoError(t, err)

	t.Run("Valid refresh token", func(t *testing.T) {
		newTokens, err := authService.Refresh(tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newTokens.AccessToken)
		assert.NotEmpty(t, newTokens.RefreshToken)
	})

	t.Run("Access token is rejected", func(t *testing.T) {
		_, err := authService.Refresh(tokens.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("Garbage token is rejected", func(t *testing.T) {
		_, err := authService.Refresh("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("Role change takes effect on refresh", func(t *testing.T) {
		user.Role = model.RoleAdmin
		require.NoError(t, userRepo.Update(user))

		newTokens, err := authService.Refresh(tokens.RefreshToken)
		require.NoError(t, err)

		claims, err := util.ValidateToken(newTokens.AccessToken, "test-jwt-secret")
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, err := authService.Register("alice", "alice@example.com", "correcthorsebattery", "correcthorsebattery")
	require.NoError(t, err)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
