package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anudeepvarma123/TalentTrack/internal/auth"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

const identityKey = "identity"

// Authenticator is satisfied by *auth.Guard.
type Authenticator interface {
	Authenticate(token string) (auth.Identity, error)
}

// JWTAuth requires a valid session token in "Authorization: Bearer <token>".
// Every failure gets the same 403 response.
func JWTAuth(guard Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortForbidden(c, "Invalid or expired token.")
			return
		}

		id, err := guard.Authenticate(strings.TrimSpace(token))
		if err != nil {
			abortForbidden(c, "Invalid or expired token.")
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRoles lets the request through only for the listed roles. It must
// run after JWTAuth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := models.RoleSet(roles)
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok || auth.RequireRole(id, allowed) != nil {
			abortForbidden(c, "Forbidden")
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the caller stored by JWTAuth.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
}
