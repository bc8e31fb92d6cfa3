package middleware

import (
	"errors"
	"slices"
	"strings"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/common/auth"
	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"
)

// IsAuth requires a valid access token and puts the caller's id, role and email on the context.
func IsAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.Abort(c, apperrors.Unauthorized("Authorization header missing"))
			return
		}
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			apperrors.Abort(c, apperrors.Forbidden("Invalid or expired token"))
			return
		}

		claims, err := tokens.ParseAndValidate(tokenStr, auth.TokenTypeAccess)
		if err != nil {
			apperrors.Abort(c, apperrors.Forbidden("Invalid or expired token"))
			return
		}
		id := auth.IdentityFromClaims(claims)
		if id.Subject == "" {
			apperrors.Abort(c, apperrors.Forbidden("Invalid or expired token"))
			return
		}

		c.Set(UserContextKey, id.Subject)
		c.Set(RoleContextKey, id.Role)
		c.Set(EmailContextKey, id.Email)
		c.Next()
	}
}

// Authorize lets through callers whose role is one of roles. It must run after IsAuth.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(RoleContextKey)) {
			apperrors.Abort(c, apperrors.Forbidden("Admin role required"))
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated caller's id.
func GetUserID(c *gin.Context) (primitive.ObjectID, error) {
	raw := c.GetString(UserContextKey)
	if raw == "" {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	return primitive.ObjectIDFromHex(raw)
}

// HasRole reports whether the caller's role is one of roles.
func HasRole(c *gin.Context, roles ...string) bool {
	return slices.Contains(roles, c.GetString(RoleContextKey))
}
