package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/authz"
	"github.com/nkuzn/shoply-backend/internal/errors"
	"github.com/nkuzn/shoply-backend/pkg/redis"
	"github.com/nkuzn/shoply-backend/pkg/util"
	"net/http"
)

// Context keys for authenticated request state
const (
	UserIDKey      = "user_id"
	UsernameKey    = "username"
	UserRoleKey    = "user_role"
	AccessTokenKey = "access_token"
	TokenExpiryKey = "token_expires_at"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// bearerToken extracts the token from the Authorization header;
// empty string when the header is missing or malformed.
func bearerToken(c *gin.Context) (token string, present bool, wellFormed bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true, false
	}
	return parts[1], true, true
}

func (m *AuthMiddleware) setIdentity(c *gin.Context, token string, claims *util.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UsernameKey, claims.Username)
	c.Set(UserRoleKey, model.UserRole(claims.Role))
	c.Set(AccessTokenKey, token)
	if claims.ExpiresAt != nil {
		c.Set(TokenExpiryKey, claims.ExpiresAt.Time)
	}
}

// Authenticate validates the access token and rejects the request when it is
// missing, malformed, expired, or revoked.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, present, wellFormed := bearerToken(c)
		if !present {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !wellFormed {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Token has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != util.TokenTypeAccess {
			log.Warn("Refresh token presented as access token", map[string]interface{}{
				"user_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			c.Abort()
			return
		}

		revoked, err := redis.IsTokenBlacklisted(c.Request.Context(), token)
		if err != nil {
			log.Error("Failed to check token blacklist", err, nil)
		}
		if revoked {
			log.Warn("Revoked token presented", map[string]interface{}{
				"user_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Token has been revoked")
			c.Abort()
			return
		}

		m.setIdentity(c, token, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id":  claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		})
		c.Next()
	}
}

// OptionalAuthenticate sets identity from a valid token when one is present
// and otherwise lets the request continue anonymously. Used on routes whose
// policy table entry is Anyone but that sit next to stricter actions.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, present, wellFormed := bearerToken(c)
		if !present || !wellFormed {
			c.Next()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil || claims.TokenType != util.TokenTypeAccess {
			log.Debug("Optional token validation failed, continuing as guest", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.Next()
			return
		}

		if revoked, _ := redis.IsTokenBlacklisted(c.Request.Context(), token); revoked {
			c.Next()
			return
		}

		m.setIdentity(c, token, claims)
		c.Next()
	}
}

// RequireCapability resolves the policy table entry for an action before the
// handler body runs. Owner resolves to Authenticated here; the ownership half
// of the check needs the entity and is finished in the service layer.
func (m *AuthMiddleware) RequireCapability(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		required := authz.Required(action)
		if required == authz.Anyone {
			c.Next()
			return
		}

		userID, authenticated := GetUserID(c)
		if !authenticated {
			log.Warn("Unauthenticated request to protected action", map[string]interface{}{
				"action":   string(action),
				"required": required.String(),
				"path":     c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if required == authz.Admin {
			role, ok := GetUserRole(c)
			if !ok {
				errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Role information not found")
				c.Abort()
				return
			}
			if role != model.RoleAdmin {
				log.Warn("Insufficient permissions", map[string]interface{}{
					"action":  string(action),
					"user_id": userID,
					"role":    role,
				})
				errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "Administrator access required")
				c.Abort()
				return
			}
		}

		log.Debug("Policy check passed", map[string]interface{}{
			"action":   string(action),
			"required": required.String(),
			"user_id":  userID,
		})
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUsername extracts the authenticated username from the context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetUserRole extracts the authenticated user role from the context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(model.UserRole), true
}

// GetAccessToken returns the raw bearer token and its expiry, for logout
func GetAccessToken(c *gin.Context) (token string, expiresAt time.Time, ok bool) {
	raw, exists := c.Get(AccessTokenKey)
	if !exists {
		return "", time.Time{}, false
	}
	expiry, _ := c.Get(TokenExpiryKey)
	expiresAt, _ = expiry.(time.Time)
	return raw.(string), expiresAt, true
}
