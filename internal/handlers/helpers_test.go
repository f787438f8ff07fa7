package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"notevault/internal/auth"
	dom "notevault/internal/domain"
	"notevault/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	nextID int64
	byName map[string]dom.User
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	u, ok := m.byName[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memUserRepo) Exists(_ context.Context, username string) (bool, error) {
	_, ok := m.byName[username]
	return ok, nil
}

func (m *memUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	if _, ok := m.byName[u.Username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	m.byName[u.Username] = u
	return u, nil
}

func (m *memUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	for name, u := range m.byName {
		if u.ID == id {
			u.PasswordHash = hash
			m.byName[name] = u
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memUserRepo) UpdateMfaSecret(_ context.Context, id int64, secret string) error {
	for name, u := range m.byName {
		if u.ID == id {
			u.MfaSecret = secret
			m.byName[name] = u
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memNoteRepo struct {
	nextID int64
	notes  map[int64]dom.Note
}

func (m *memNoteRepo) Create(_ context.Context, n dom.Note) (dom.Note, error) {
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	m.notes[n.ID] = n
	return n, nil
}

func (m *memNoteRepo) GetByID(_ context.Context, id int64) (dom.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return dom.Note{}, pgx.ErrNoRows
	}
	return n, nil
}

func (m *memNoteRepo) ListByUser(_ context.Context, userID int64) ([]dom.Note, error) {
	var list []dom.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	return list, nil
}

func (m *memNoteRepo) Update(_ context.Context, userID, id int64, title, content string) (dom.Note, error) {
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return dom.Note{}, pgx.ErrNoRows
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = time.Now()
	m.notes[id] = n
	return n, nil
}

func (m *memNoteRepo) Delete(_ context.Context, userID, id int64) (bool, error) {
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(m.notes, id)
	return true, nil
}

// testEnv wires the full HTTP surface against in-memory repos, mirroring the
// production route layout.
type testEnv struct {
	router *gin.Engine
	totp   *auth.TOTP
	tokens *auth.Tokens
	users  *memUserRepo
	notes  *memNoteRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUserRepo{byName: make(map[string]dom.User)}
	notes := &memNoteRepo{notes: make(map[int64]dom.Note)}

	totp := auth.NewTOTP(auth.TOTPConfig{Issuer: "NoteVault"})
	tokens := auth.NewTokens([]byte("test-signing-key"), time.Hour)

	userSvc := service.NewUserService(users, totp, tokens)
	noteSvc := service.NewNoteService(notes, nil)
	authH := NewAuthHandler(userSvc)
	noteH := NewNoteHandler(noteSvc)

	r := gin.New()
	api := r.Group("/api")

	ag := api.Group("/auth")
	ag.POST("/signup", authH.Signup)
	ag.POST("/signup/verify", authH.VerifySignup)
	ag.POST("/signin", authH.Signin)
	ag.POST("/resetpw", authH.ResetPassword)

	protected := api.Group("/auth", auth.RequireAuth(tokens, userSvc))
	protected.POST("/refresh-mfa", authH.RefreshMfa)
	protected.POST("/confirm-mfa-update", authH.ConfirmMfaUpdate)

	ng := api.Group("/notes", auth.RequireAuth(tokens, userSvc))
	ng.POST("/create", noteH.Create)
	ng.GET("/all", noteH.List)
	ng.GET("/get/:id", noteH.GetByID)
	ng.PUT("/update/:id", noteH.Update)
	ng.DELETE("/delete/:id", noteH.Delete)

	return &testEnv{router: r, totp: totp, tokens: tokens, users: users, notes: notes}
}

// do performs a JSON request. A non-empty token goes out as a bearer header.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerUser creates an account directly in the repo and returns it with a
// valid bearer token, skipping the signup dance for note tests.
func (e *testEnv) registerUser(t *testing.T, username string) (dom.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("Aa1!aaaa")
	require.NoError(t, err)
	secret, err := e.totp.GenerateSecret()
	require.NoError(t, err)
	u, err := e.users.Create(context.Background(), dom.User{
		Username:     username,
		PasswordHash: hash,
		MfaSecret:    secret,
		Roles:        []dom.Role{dom.RoleUser},
	})
	require.NoError(t, err)
	token, err := e.tokens.Issue(username)
	require.NoError(t, err)
	return u, token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
