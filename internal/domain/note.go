package domain

import "time"

// Note is the domain entity for a private note. UserID is the owner; every
// read and mutation must verify it against the acting account.
type Note struct {
	ID      int64
	UserID  int64
	Title   string
	Content string

	CreatedAt time.Time
	UpdatedAt time.Time
}
