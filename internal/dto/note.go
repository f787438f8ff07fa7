package dto

import "time"

// NoteRequest is the JSON body for note create and update.
type NoteRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
}

// NoteResponse is a full note, owner implied by the authenticated request.
type NoteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotePreviewResponse is a list item: content cut to the preview length.
type NotePreviewResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotesResponse wraps the owner's note previews.
type ListNotesResponse struct {
	Items []NotePreviewResponse `json:"items"`
}
