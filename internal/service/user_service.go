package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"notevault/internal/auth"
	dom "notevault/internal/domain"
	"notevault/internal/repo"
	"notevault/internal/utils"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidMfaCode     = errors.New("invalid mfa code")
	ErrMalformedMfaCode   = errors.New("mfa code must be a 6-digit number")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with a digit, lowercase, uppercase and symbol")
)

const passwordSymbols = "@#$%^&+=!*_-"

// UserService orchestrates the account lifecycle: two-phase signup, signin,
// password reset and MFA rotation. No account row exists until its MFA secret
// has been confirmed by one valid code.
type UserService struct {
	repo   repo.UserRepo
	totp   *auth.TOTP
	tokens *auth.Tokens
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo, totp *auth.TOTP, tokens *auth.Tokens) *UserService {
	return &UserService{repo: r, totp: totp, tokens: tokens}
}

// GetByUsername loads an account for the auth middleware.
func (s *UserService) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// Signup proposes an MFA secret for a new account. Nothing is persisted: the
// secret and enrollment URI travel back to the client, which must prove the
// secret through VerifyAndCreate. The availability check here is advisory;
// the unique index catches the race at insert time.
func (s *UserService) Signup(ctx context.Context, username, password string) (secret, uri string, err error) {
	username = strings.TrimSpace(username)
	if err := validatePassword(password); err != nil {
		return "", "", err
	}
	taken, err := s.repo.Exists(ctx, username)
	if err != nil {
		return "", "", err
	}
	if taken {
		return "", "", ErrUsernameTaken
	}
	secret, err = s.totp.GenerateSecret()
	if err != nil {
		return "", "", err
	}
	return secret, s.totp.ProvisionURI(secret, username), nil
}

// VerifyAndCreate checks the code against the proposed secret and, on
// success, persists the account. Creation is attempt-and-reject: a duplicate
// username surfaces as ErrUsernameTaken from the unique constraint, never
// from a pre-check.
func (s *UserService) VerifyAndCreate(ctx context.Context, username, password, secret, code string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if err := validatePassword(password); err != nil {
		return dom.User{}, err
	}
	if !s.totp.WellFormed(code) {
		return dom.User{}, ErrMalformedMfaCode
	}
	if !s.totp.VerifyCode(secret, code, time.Now()) {
		return dom.User{}, ErrInvalidMfaCode
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		Username:     username,
		PasswordHash: hash,
		MfaSecret:    secret,
		Roles:        []dom.Role{dom.RoleUser},
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// SignIn checks credentials and issues a bearer token. Unknown username and
// wrong password are the same error; the response must not say which.
func (s *UserService) SignIn(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.Username)
}

// ResetPassword replaces the password after the stored MFA secret vouches for
// the caller. The strength check runs before code verification, so a weak
// password is rejected regardless of code correctness.
func (s *UserService) ResetPassword(ctx context.Context, username, newPassword, code string) error {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if !s.totp.WellFormed(code) {
		return ErrMalformedMfaCode
	}
	if !s.totp.VerifyCode(u.MfaSecret, code, time.Now()) {
		return ErrInvalidMfaCode
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, u.ID, hash)
}

// RotateMfaStart verifies a current code, then proposes a replacement secret.
// The stored secret stays live until RotateMfaConfirm proves the new one, so
// a bad enrollment scan can never lock the account out.
func (s *UserService) RotateMfaStart(ctx context.Context, u dom.User, currentCode string) (secret, uri string, err error) {
	if !s.totp.WellFormed(currentCode) {
		return "", "", ErrMalformedMfaCode
	}
	if !s.totp.VerifyCode(u.MfaSecret, currentCode, time.Now()) {
		return "", "", ErrInvalidMfaCode
	}
	secret, err = s.totp.GenerateSecret()
	if err != nil {
		return "", "", err
	}
	return secret, s.totp.ProvisionURI(secret, u.Username), nil
}

// RotateMfaConfirm swaps the stored secret once a code proves the new one.
func (s *UserService) RotateMfaConfirm(ctx context.Context, u dom.User, newSecret, code string) error {
	if !s.totp.WellFormed(code) {
		return ErrMalformedMfaCode
	}
	if !s.totp.VerifyCode(newSecret, code, time.Now()) {
		return ErrInvalidMfaCode
	}
	return s.repo.UpdateMfaSecret(ctx, u.ID, newSecret)
}

// validatePassword enforces the uniform strength policy: at least 8
// characters with one digit, one lowercase, one uppercase and one symbol.
func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var digit, lower, upper, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !digit || !lower || !upper || !symbol {
		return ErrWeakPassword
	}
	return nil
}
