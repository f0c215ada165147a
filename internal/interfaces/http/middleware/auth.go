// Package middleware provides gin middleware for the HTTP surface.
package middleware

import (
	"net/http"
	"strings"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys and header constants
const (
	ActorKey      = "auth_actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultAuthConfig returns the default auth middleware configuration
func DefaultAuthConfig(jwtService *auth.JWTService) AuthConfig {
	return AuthConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
		},
	}
}

// AuthMiddleware creates JWT authentication middleware with default config
func AuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return AuthMiddlewareWithConfig(DefaultAuthConfig(jwtService))
}

// AuthMiddlewareWithConfig validates the bearer token and stores the resolved
// actor in the request context.
func AuthMiddlewareWithConfig(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Malformed token claims")
			return
		}

		c.Set(ActorKey, actor)
		// string copies for the request logger, which cannot depend on Actor
		c.Set("company_id", actor.CompanyID.String())
		c.Set("user_id", actor.ID.String())
		c.Next()
	}
}

func actorFromClaims(claims *auth.Claims) (appfinance.Actor, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return appfinance.Actor{}, auth.ErrInvalidClaims
	}
	companyID, err := claims.GetCompanyUUID()
	if err != nil {
		return appfinance.Actor{}, auth.ErrInvalidClaims
	}
	role := appfinance.Role(claims.Role)
	if !role.IsValid() {
		return appfinance.Actor{}, auth.ErrInvalidClaims
	}
	return appfinance.Actor{
		ID:        userID,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      role,
		CompanyID: companyID,
	}, nil
}

func abortUnauthorized(c *gin.Context, cfg AuthConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "UNAUTHORIZED"
	errorMessage := "Authentication required"
	switch err {
	case auth.ErrExpiredToken:
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case auth.ErrInvalidToken:
		errorCode = "INVALID_TOKEN"
		errorMessage = "Invalid token"
	case auth.ErrInvalidClaims:
		errorCode = "INVALID_CLAIMS"
		errorMessage = "Invalid token claims"
	case auth.ErrTokenNotYetValid:
		errorCode = "TOKEN_NOT_VALID"
		errorMessage = "Token is not yet valid"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

// GetActor retrieves the authenticated actor from gin.Context
func GetActor(c *gin.Context) (appfinance.Actor, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(appfinance.Actor); ok {
			return actor, true
		}
	}
	return appfinance.Actor{}, false
}
