package middleware

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/learnlite/course-platform/internal/config"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
)

// Context keys set by the auth middleware and read by handlers.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// TokenVerifier abstracts the identity provider so tests can stub it.
type TokenVerifier interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// AuthMiddleware verifies the bearer token and attaches the asserted
// identity to the request context. Identity issuance is external; this
// service only verifies and mirrors it.
type AuthMiddleware struct {
	verifier TokenVerifier
	users    repositories.UserRepository
	logger   utils.Logger
}

func NewAuthMiddleware(cfg *config.Config, users repositories.UserRepository, logger utils.Logger) *AuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
	return &AuthMiddleware{verifier: client, users: users, logger: logger}
}

func NewAuthMiddlewareWithVerifier(verifier TokenVerifier, users repositories.UserRepository, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users, logger: logger}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := m.verifier.ParseJwtToken(token)
		if err != nil {
			m.logger.Warn("Token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		role := models.RoleStudent
		if claims.User.IsAdmin {
			role = models.RoleAdmin
		}

		// Refresh the local identity mirror; a failure here must not block
		// the request.
		user := &models.User{
			ID:    claims.User.Id,
			Name:  claims.User.Name,
			Email: claims.User.Email,
			Role:  role,
		}
		if err := m.users.Upsert(c.Request.Context(), user); err != nil {
			m.logger.Warn("Failed to mirror user", "user_id", user.ID, "error", err)
		}

		c.Set(ContextUserID, claims.User.Id)
		c.Set(ContextRole, string(role))
		c.Next()
	}
}

// RequireAdmin guards the administrative CRUD surface. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != string(models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
