package auth

import (
	"context"
	"net/http"
	"strings"

	dom "notevault/internal/domain"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

const contextKeyUser = "current_user"

// UserLoader resolves a token subject to the acting account.
type UserLoader interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// RequireAuth returns a middleware that validates the Authorization bearer
// token and resolves its subject to an account. Handlers behind it receive an
// already-validated identity via CurrentUser; they never touch the token.
// Any failure (missing header, bad signature, expiry, unknown subject)
// responds 401.
func RequireAuth(tokens *Tokens, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		username, err := tokens.Subject(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		user, err := users.GetByUsername(c.Request.Context(), username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}
