package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	dom "notevault/internal/domain"
	"notevault/internal/repo"

	"notevault/internal/cache"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("not the owner")
)

// NoteService handles note CRUD scoped to the acting account. Reads and
// mutations on another owner's note fail with ErrNotOwner, distinct from
// ErrNotFound, and leave the note untouched.
type NoteService struct {
	repo  repo.NoteRepo
	cache *cache.NoteCache
	sf    singleflight.Group
}

// NewNoteService creates a NoteService. If c is nil, caching is disabled.
func NewNoteService(r repo.NoteRepo, c *cache.NoteCache) *NoteService {
	return &NoteService{repo: r, cache: c}
}

func (s *NoteService) Create(ctx context.Context, userID int64, title, content string) (dom.Note, error) {
	n, err := s.repo.Create(ctx, dom.Note{
		UserID:  userID,
		Title:   strings.TrimSpace(title),
		Content: content,
	})
	if err != nil {
		return dom.Note{}, err
	}
	s.invalidateCache(ctx, userID)
	return n, nil
}

// List returns the owner's notes, newest first, through the per-user cache.
func (s *NoteService) List(ctx context.Context, userID int64) ([]dom.Note, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Note), nil
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *NoteService) Get(ctx context.Context, userID, id int64) (dom.Note, error) {
	n, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return dom.Note{}, err
	}
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, userID, id int64, title, content string) (dom.Note, error) {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return dom.Note{}, err
	}
	// The user_id guard in the UPDATE keeps check-then-write atomic.
	n, err := s.repo.Update(ctx, userID, id, strings.TrimSpace(title), content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	s.invalidateCache(ctx, userID)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// loadOwned fetches the note by id alone, then checks ownership, so a
// missing note and someone else's note come back as different errors.
func (s *NoteService) loadOwned(ctx context.Context, userID, id int64) (dom.Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	if n.UserID != userID {
		return dom.Note{}, ErrNotOwner
	}
	return n, nil
}

func (s *NoteService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
