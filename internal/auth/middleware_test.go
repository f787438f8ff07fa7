package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dom "notevault/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

type stubUserLoader struct {
	users map[string]dom.User
}

func (s *stubUserLoader) GetByUsername(_ context.Context, username string) (dom.User, error) {
	u, ok := s.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func authTestRouter(tokens *Tokens, loader UserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", RequireAuth(tokens, loader), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": u.Username})
	})
	return r
}

func TestRequireAuthHappyPath(t *testing.T) {
	tokens := NewTokens([]byte("test-signing-key"), time.Hour)
	loader := &stubUserLoader{users: map[string]dom.User{
		"alice": {ID: 1, Username: "alice", Roles: []dom.Role{dom.RoleUser}},
	}}
	r := authTestRouter(tokens, loader)

	raw, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthRejects(t *testing.T) {
	tokens := NewTokens([]byte("test-signing-key"), time.Hour)
	loader := &stubUserLoader{users: map[string]dom.User{
		"alice": {ID: 1, Username: "alice"},
	}}
	r := authTestRouter(tokens, loader)

	expired := NewTokens([]byte("test-signing-key"), -time.Minute)
	expiredTok, _ := expired.Issue("alice")
	foreign := NewTokens([]byte("another-key"), time.Hour)
	foreignTok, _ := foreign.Issue("alice")
	ghostTok, _ := tokens.Issue("nobody")
	okTok, _ := tokens.Issue("alice")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expiredTok},
		{"wrong key", "Bearer " + foreignTok},
		{"unknown subject", "Bearer " + ghostTok},
		{"no prefix", okTok},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}
