package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nkuzn/shoply-backend/internal/app/service"
	apperrors "github.com/nkuzn/shoply-backend/internal/errors"
	"github.com/nkuzn/shoply-backend/internal/middleware"
	"github.com/nkuzn/shoply-backend/pkg/redis"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterRequest deliberately leaves email unvalidated at binding time:
// the email-required check runs after the password checks so validation
// failures surface in a fixed order.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenRefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration data")
		return
	}

	log.Info("Registration attempt", map[string]interface{}{
		"username": req.Username,
		"email":    req.Email,
	})

	user, err := ctrl.authService.Register(req.Username, req.Email, req.Password, req.Password2)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			log.Warn("Registration validation failed", map[string]interface{}{
				"username": req.Username,
				"field":    validationErr.Field,
			})
			apperrors.RespondWithValidationError(c, map[string]string{
				validationErr.Field: validationErr.Message,
			})
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Please login.",
	})
}

// Token handles credential-based token issuance
// POST /api/v1/auth/token
func (ctrl *AuthController) Token(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid token request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid credentials payload")
		return
	}

	log.Info("Token obtain attempt", map[string]interface{}{
		"username": req.Username,
	})

	_, tokens, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Token obtain failed: invalid credentials", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials,
				"No active account found with the given credentials")
			return
		}
		log.Error("Token obtain failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  tokens.AccessToken,
		"refresh": tokens.RefreshToken,
	})
}

// TokenRefresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/token/refresh
func (ctrl *AuthController) TokenRefresh(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TokenRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid token refresh request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid refresh payload")
		return
	}

	tokens, err := ctrl.authService.Refresh(req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			log.Warn("Token refresh failed: invalid refresh token", nil)
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid,
				"Token is invalid or expired")
			return
		}
		log.Error("Token refresh failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  tokens.AccessToken,
		"refresh": tokens.RefreshToken,
	})
}

// GetMe returns the authenticated caller's identity
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("User not found", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Logout revokes the presented access token for its remaining lifetime
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, expiresAt, ok := middleware.GetAccessToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := redis.BlacklistToken(c.Request.Context(), token, time.Until(expiresAt)); err != nil {
		log.Error("Failed to revoke token", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("User logged out")
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
