package auth

import (
	"github.com/gin-gonic/gin"

	sharederrors "github.com/bapesu/storefront-api/internal/shared/errors"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id.
	ContextUserID = "auth.user_id"
	// ContextEmail is the gin context key holding the authenticated email.
	ContextEmail = "auth.email"
	// ContextRole is the gin context key holding the authenticated role.
	ContextRole = "auth.role"
)

// RequireAuth validates the bearer token and stores the identity on the
// request context. Requests without a valid token get a 401 problem.
func RequireAuth(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifier.ParseToken(c.GetHeader("Authorization"))
		if err != nil {
			sharederrors.Respond(c, sharederrors.ErrUnauthorized.WithDetail("missing or invalid bearer token"))
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates the admin surface. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != RoleAdmin {
			sharederrors.Respond(c, sharederrors.ErrForbidden.WithDetail("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID extracts the authenticated user id from the request context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
