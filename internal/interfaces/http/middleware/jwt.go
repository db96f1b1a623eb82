package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Context keys for JWT claims
const (
	ContextKeyJWTClaims = "jwt_claims"
	ContextKeyUserID    = "jwt_user_id"
	ContextKeyEmail     = "jwt_email"
	ContextKeyRole      = "jwt_role"
)

// GuestCartTokenHeader carries the anonymous cart token on guest
// endpoints and on login requests that want a cart merge.
const GuestCartTokenHeader = "X-Guest-Cart-Token"

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuthMiddleware creates a Gin middleware for JWT authentication
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	skipPaths := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skipPaths[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			handleAuthError(c, cfg.Logger, err)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg.Logger, err)
			return
		}

		setClaimsContext(c, claims)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware validates a token when one is present but
// lets unauthenticated requests through. Invalid tokens are treated as
// absent rather than rejected.
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		setClaimsContext(c, claims)
		c.Next()
	}
}

// RequireAdmin rejects requests whose authenticated role is not admin.
// Must run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetJWTRole(c)
		if !ok || role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin access required"))
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", auth.ErrInvalidToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}

	return parts[1], nil
}

func setClaimsContext(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextKeyJWTClaims, claims)
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyRole, claims.Role)
}

func handleAuthError(c *gin.Context, logger *zap.Logger, err error) {
	var code, message string

	switch err {
	case auth.ErrExpiredToken:
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case auth.ErrTokenNotYetValid:
		code = dto.ErrCodeTokenInvalid
		message = "Token is not yet valid"
	case auth.ErrInvalidTokenType:
		code = dto.ErrCodeTokenInvalid
		message = "Invalid token type"
	default:
		code = dto.ErrCodeUnauthorized
		message = "Authentication required"
	}

	logger.Debug("jwt authentication failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetJWTClaims retrieves JWT claims from the Gin context
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextKeyJWTClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID retrieves the authenticated user's ID from the Gin context
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	raw, ok := value.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetJWTRole retrieves the authenticated user's role from the Gin context
func GetJWTRole(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyRole)
	if !exists {
		return "", false
	}
	role, ok := value.(string)
	return role, ok
}

// GetGuestCartToken reads the guest cart token header. Empty when the
// client has no anonymous cart.
func GetGuestCartToken(c *gin.Context) string {
	return c.GetHeader(GuestCartTokenHeader)
}
