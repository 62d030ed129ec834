package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/domain"
	"github.com/outdoor-rental/service-rental/internal/common/response"
)

const (
	ctxUserID = "auth.user_id"
	ctxRole   = "auth.role"
	ctxEmail  = "auth.email"
)

// AccountLookup resolves the stored role of the account a token was issued to.
type AccountLookup interface {
	// AccountRole returns a NotFound domain error when the account no longer exists.
	AccountRole(ctx context.Context, userID uuid.UUID) (auth.Role, error)
}

// AuthMiddleware requires a valid Bearer token for an account that still
// exists. The role stored in the context is the account's current role, not
// the one in the token.
func AuthMiddleware(jwtManager *auth.JWTManager, accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "authorization header is required")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			response.Unauthorized(c, "authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		role, err := accounts.AccountRole(c.Request.Context(), claims.UserID())
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				response.Unauthorized(c, "user not found")
				return
			}
			response.Error(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID())
		c.Set(ctxRole, role)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated role is one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Error(c, domain.NewForbiddenError("admin access required"))
	}
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole returns the authenticated user's role.
func GetUserRole(c *gin.Context) (auth.Role, bool) {
	v, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(auth.Role)
	return role, ok
}

// IsAdmin reports whether the authenticated user holds the admin role.
func IsAdmin(c *gin.Context) bool {
	role, ok := GetUserRole(c)
	return ok && role == auth.RoleAdmin
}
