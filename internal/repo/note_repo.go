package repo

import (
	"context"

	dom "notevault/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NoteRepo provides note persistence. GetByID fetches by id alone so the
// service can tell "missing" apart from "owned by someone else"; mutations
// take the owner id as an extra WHERE guard so check-then-write stays atomic.
type NoteRepo interface {
	Create(ctx context.Context, n dom.Note) (dom.Note, error)
	GetByID(ctx context.Context, id int64) (dom.Note, error)
	ListByUser(ctx context.Context, userID int64) ([]dom.Note, error)
	Update(ctx context.Context, userID, id int64, title, content string) (dom.Note, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

// PGNoteRepo implements NoteRepo with Postgres.
type PGNoteRepo struct {
	db *pgxpool.Pool
}

// NewPGNoteRepo returns a new PGNoteRepo.
func NewPGNoteRepo(db *pgxpool.Pool) *PGNoteRepo {
	return &PGNoteRepo{db: db}
}

func (r *PGNoteRepo) Create(ctx context.Context, n dom.Note) (dom.Note, error) {
	query := `
		INSERT INTO notes (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, content, created_at, updated_at`
	var out dom.Note
	err := r.db.QueryRow(ctx, query, n.UserID, n.Title, n.Content).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Content, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGNoteRepo) GetByID(ctx context.Context, id int64) (dom.Note, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes WHERE id = $1`
	var n dom.Note
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

func (r *PGNoteRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Note, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Note
	for rows.Next() {
		var n dom.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content,
			&n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *PGNoteRepo) Update(ctx context.Context, userID, id int64, title, content string) (dom.Note, error) {
	query := `
		UPDATE notes SET title = $3, content = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, content, created_at, updated_at`
	var n dom.Note
	err := r.db.QueryRow(ctx, query, id, userID, title, content).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

func (r *PGNoteRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
