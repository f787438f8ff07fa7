package repo

import (
	"context"

	dom "notevault/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides account persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	UpdateMfaSecret(ctx context.Context, id int64, mfaSecret string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the account by username.
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	var roles []string
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, mfa_secret, roles, created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.MfaSecret, &roles, &u.CreatedAt)
	if err != nil {
		return dom.User{}, err
	}
	u.Roles = rolesFromStrings(roles)
	return u, nil
}

// Exists reports whether the username is taken. Advisory only: the unique
// index on username is what actually serializes concurrent signups.
func (r *PGUserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new account and returns it. A duplicate username surfaces
// as a unique constraint violation.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (username, password_hash, mfa_secret, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, mfa_secret, roles, created_at`
	var out dom.User
	var roles []string
	err := r.db.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.MfaSecret, rolesToStrings(u.Roles),
	).Scan(&out.ID, &out.Username, &out.PasswordHash, &out.MfaSecret, &roles, &out.CreatedAt)
	if err != nil {
		return dom.User{}, err
	}
	out.Roles = rolesFromStrings(roles)
	return out, nil
}

// UpdatePasswordHash replaces the stored password hash wholesale.
func (r *PGUserRepo) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

// UpdateMfaSecret replaces the stored MFA secret wholesale.
func (r *PGUserRepo) UpdateMfaSecret(ctx context.Context, id int64, mfaSecret string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET mfa_secret = $2 WHERE id = $1`, id, mfaSecret)
	return err
}

func rolesToStrings(roles []dom.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func rolesFromStrings(raw []string) []dom.Role {
	out := make([]dom.Role, 0, len(raw))
	for _, s := range raw {
		// Rows are written through domain.ParseRole; anything else is skipped.
		r, err := dom.ParseRole(s)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
