package handlers

import (
	"net/http"
	"testing"
	"time"

	"notevault/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupVerifySigninEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Username: "alice", Password: "Aa1!aaaa",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var signup dto.SignupResponse
	decodeJSON(t, w, &signup)
	require.NotEmpty(t, signup.Secret)
	assert.Contains(t, signup.EnrollmentURI, "otpauth://totp/")
	assert.Empty(t, env.users.byName, "no account before verification")

	code, err := env.totp.GenerateCode(signup.Secret, time.Now())
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/api/auth/signup/verify", "", dto.VerifySignupRequest{
		Username: "alice", Password: "Aa1!aaaa", Secret: signup.Secret, MfaCode: code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, env.users.byName, "alice")

	w = env.do(t, http.MethodPost, "/api/auth/signin", "", dto.SigninRequest{
		Username: "alice", Password: "Aa1!aaaa",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tok dto.TokenResponse
	decodeJSON(t, w, &tok)
	require.NotEmpty(t, tok.Token)

	// The token works against a protected route.
	w = env.do(t, http.MethodGet, "/api/notes/all", tok.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		req  dto.SignupRequest
	}{
		{"username too short", dto.SignupRequest{Username: "ab", Password: "Aa1!aaaa"}},
		{"username too long", dto.SignupRequest{Username: "abcdefghijklmnopqrstu", Password: "Aa1!aaaa"}},
		{"missing password", dto.SignupRequest{Username: "alice"}},
		{"weak password", dto.SignupRequest{Username: "alice", Password: "weakweak"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/signup", "", tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSignupTakenUsername(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice")

	w := env.do(t, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Username: "alice", Password: "Aa1!aaaa",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username already exists")
}

func TestVerifySignupWrongCode(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Username: "alice", Password: "Aa1!aaaa",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var signup dto.SignupResponse
	decodeJSON(t, w, &signup)

	good, err := env.totp.GenerateCode(signup.Secret, time.Now())
	require.NoError(t, err)
	wrong := "000000"
	if wrong == good {
		wrong = "000001"
	}

	w = env.do(t, http.MethodPost, "/api/auth/signup/verify", "", dto.VerifySignupRequest{
		Username: "alice", Password: "Aa1!aaaa", Secret: signup.Secret, MfaCode: wrong,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/signup/verify", "", dto.VerifySignupRequest{
		Username: "alice", Password: "Aa1!aaaa", Secret: signup.Secret, MfaCode: "12ab56",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.users.byName)
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "alice")

	w := env.do(t, http.MethodPost, "/api/auth/signin", "", dto.SigninRequest{
		Username: "alice", Password: "Wrong1!pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/signin", "", dto.SigninRequest{
		Username: "nobody", Password: "Aa1!aaaa",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetPasswordStatusMapping(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.registerUser(t, "alice")

	code, err := env.totp.GenerateCode(u.MfaSecret, time.Now())
	require.NoError(t, err)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	t.Run("unknown user 404", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/resetpw", "", dto.ResetPasswordRequest{
			Username: "nobody", NewPassword: "New1!pass", MfaCode: code,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("weak password 400 even with bad code", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/resetpw", "", dto.ResetPasswordRequest{
			Username: "alice", NewPassword: "weakweak", MfaCode: wrong,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong code 403", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/resetpw", "", dto.ResetPasswordRequest{
			Username: "alice", NewPassword: "New1!pass", MfaCode: wrong,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("success 200", func(t *testing.T) {
		fresh, err := env.totp.GenerateCode(u.MfaSecret, time.Now())
		require.NoError(t, err)
		w := env.do(t, http.MethodPost, "/api/auth/resetpw", "", dto.ResetPasswordRequest{
			Username: "alice", NewPassword: "New1!pass", MfaCode: fresh,
		})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodPost, "/api/auth/signin", "", dto.SigninRequest{
			Username: "alice", Password: "New1!pass",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMfaRotationFlow(t *testing.T) {
	env := newTestEnv(t)
	u, token := env.registerUser(t, "alice")

	t.Run("requires auth", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/refresh-mfa", "", dto.RefreshMfaRequest{CurrentMfaCode: "123456"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	current, err := env.totp.GenerateCode(u.MfaSecret, time.Now())
	require.NoError(t, err)
	wrong := "000000"
	if wrong == current {
		wrong = "000001"
	}

	t.Run("wrong current code 403", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/refresh-mfa", token, dto.RefreshMfaRequest{CurrentMfaCode: wrong})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	w := env.do(t, http.MethodPost, "/api/auth/refresh-mfa", token, dto.RefreshMfaRequest{CurrentMfaCode: current})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var refresh dto.RefreshMfaResponse
	decodeJSON(t, w, &refresh)
	require.NotEmpty(t, refresh.NewSecret)
	assert.NotEqual(t, u.MfaSecret, refresh.NewSecret)

	t.Run("bad confirmation code 400", func(t *testing.T) {
		newGood, err := env.totp.GenerateCode(refresh.NewSecret, time.Now())
		require.NoError(t, err)
		bad := "000000"
		if bad == newGood {
			bad = "000001"
		}
		w := env.do(t, http.MethodPost, "/api/auth/confirm-mfa-update", token, dto.ConfirmMfaRequest{
			NewSecret: refresh.NewSecret, Code: bad,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, u.MfaSecret, env.users.byName["alice"].MfaSecret, "stored secret untouched")
	})

	newCode, err := env.totp.GenerateCode(refresh.NewSecret, time.Now())
	require.NoError(t, err)
	w = env.do(t, http.MethodPost, "/api/auth/confirm-mfa-update", token, dto.ConfirmMfaRequest{
		NewSecret: refresh.NewSecret, Code: newCode,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, refresh.NewSecret, env.users.byName["alice"].MfaSecret)
}
