package service

import (
	"errors"
	"time"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"github.com/nkuzn/shoply-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// ValidationError is a field-scoped registration failure, rendered as a
// 400 response with the message keyed under the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type AuthService interface {
	Register(username, email, password, password2 string) (*model.User, error)
	Login(username, password string) (*model.User, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo           repository.UserRepository
	passwordValidators []util.PasswordValidator
	jwtSecret          string
	accessExpiry       time.Duration
	refreshExpiry      time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:           userRepo,
		passwordValidators: util.DefaultPasswordValidators(),
		jwtSecret:          jwtSecret,
		accessExpiry:       accessExpiry,
		refreshExpiry:      refreshExpiry,
	}
}

// Register validates and creates a new account. Checks run in a fixed order:
// password confirmation, password policy, email presence, username
// uniqueness. Registration does not issue tokens; clients log in afterwards.
func (s *authService) Register(username, email, password, password2 string) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
		"email":    email,
	})

	if password != password2 {
		logger.Warn("Registration failed: password confirmation mismatch", map[string]interface{}{
			"username": username,
		})
		return nil, &ValidationError{Field: "password", Message: "Password fields didn't match."}
	}

	if err := util.ValidatePassword(password, username, email, s.passwordValidators); err != nil {
		logger.Warn("Registration failed: password policy violation", map[string]interface{}{
			"username": username,
			"reason":   err.Error(),
		})
		return nil, &ValidationError{Field: "password", Message: err.Error()}
	}

	if email == "" {
		logger.Warn("Registration failed: missing email", map[string]interface{}{
			"username": username,
		})
		return nil, &ValidationError{Field: "email", Message: "This field is required."}
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing username", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, &ValidationError{Field: "username", Message: "A user with that username already exists."}
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	return user, nil
}

func (s *authService) Login(username, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Token obtain attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Token obtain failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Token obtain failed: invalid password", map[string]interface{}{
			"username": username,
			"user_id":  user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Username,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("Token obtained successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
		"role":     user.Role,
	})
	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The user is
// reloaded so role changes made since issuance take effect.
func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		logger.Warn("Token refresh failed: invalid token", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil, ErrInvalidRefresh
	}
	if claims.TokenType != util.TokenTypeRefresh {
		logger.Warn("Token refresh failed: not a refresh token", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Username,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens on refresh", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Token refreshed successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	logger.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}
