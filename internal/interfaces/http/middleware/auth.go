package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickdash/backend/internal/infrastructure/auth"
	"github.com/quickdash/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware.
const (
	ClaimsKey     = "jwt_claims"
	BusinessIDKey = "business_id"
	UserIDKey     = "user_id"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// AuthConfig holds auth middleware configuration.
type AuthConfig struct {
	JWTService *auth.JWTService
	// AllowHeaderFallback accepts X-Business-ID / X-User-ID headers when no
	// token is present. Development only.
	AllowHeaderFallback bool
	Logger              *zap.Logger
}

// Auth validates the bearer token and stores the tenant scope in the
// context. Every route behind it can rely on business_id being set.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(authHeaderKey)
		if authHeader == "" {
			if cfg.AllowHeaderFallback && headerFallback(c) {
				c.Next()
				return
			}
			abortUnauthorized(c, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			log.Warn("token validation failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(BusinessIDKey, claims.BusinessID)
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// headerFallback populates the tenant scope from headers, returning true
// when a valid business ID was present.
func headerFallback(c *gin.Context) bool {
	businessID := c.GetHeader("X-Business-ID")
	if businessID == "" {
		return false
	}
	if _, err := uuid.Parse(businessID); err != nil {
		return false
	}

	c.Set(BusinessIDKey, businessID)
	if userID := c.GetHeader("X-User-ID"); userID != "" {
		if _, err := uuid.Parse(userID); err == nil {
			c.Set(UserIDKey, userID)
		}
	}
	return true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.ErrCodeUnauthorized,
		message,
	))
}

// GetBusinessID extracts the authenticated business ID from the context.
func GetBusinessID(c *gin.Context) (uuid.UUID, error) {
	id := c.GetString(BusinessIDKey)
	if id == "" {
		return uuid.Nil, errors.New("business ID not found in context")
	}
	return uuid.Parse(id)
}

// GetUserID extracts the authenticated user ID, or uuid.Nil when absent.
func GetUserID(c *gin.Context) uuid.UUID {
	id := c.GetString(UserIDKey)
	if id == "" {
		return uuid.Nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
