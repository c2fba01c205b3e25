package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/milorg/backend/internal/infrastructure/auth"
	"github.com/milorg/backend/internal/interfaces/http/dto"
)

// Actor context keys
const (
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// actorIDContextKey carries the actor ID on the request context so the
// application layer can read it without importing gin.
type actorIDContextKey struct{}

// ActorAuthConfig holds configuration for the actor auth middleware
type ActorAuthConfig struct {
	// Verifier validates bearer tokens issued by the personnel system
	Verifier *auth.TokenVerifier
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultActorAuthConfig returns default actor auth configuration
func DefaultActorAuthConfig(verifier *auth.TokenVerifier) ActorAuthConfig {
	return ActorAuthConfig{
		Verifier: verifier,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
		},
	}
}

// ActorAuth creates bearer-token authentication middleware. Every request on
// a protected route must carry a token that names the acting service member;
// the verified actor is stored in the gin context for handlers and audit.
func ActorAuth(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return ActorAuthWithConfig(DefaultActorAuthConfig(verifier))
}

// ActorAuthWithConfig creates actor auth middleware with custom config
func ActorAuthWithConfig(cfg ActorAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		token, err := extractBearerToken(c)
		if err != nil {
			unauthorized(c, "Missing or malformed authorization header")
			return
		}

		actor, err := cfg.Verifier.Verify(token)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("token verification failed",
					zap.String("path", path),
					zap.Error(err))
			}
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ActorKey, actor)
		ctx := context.WithValue(c.Request.Context(), actorIDContextKey{}, actor.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor returns the verified actor stored by ActorAuth, if any.
func GetActor(c *gin.Context) (*auth.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*auth.Actor)
	return actor, ok
}

// ActorIDFromContext returns the actor ID stored on a request context.
func ActorIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(actorIDContextKey{}).(string); ok {
		return id
	}
	return ""
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", auth.ErrInvalidToken
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

func unauthorized(c *gin.Context, message string) {
	requestID := getRequestIDFromContext(c)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestID))
}
