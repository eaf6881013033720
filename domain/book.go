// Package domain contains the core entities and domain logic for the ReadLeaf reading tracker.
package domain

import "time"

// BookStatus tracks where a book sits in its reading lifecycle.
type BookStatus string

// The four lifecycle states. Every book is in exactly one.
const (
	StatusNotStarted BookStatus = "not_started"
	StatusInProgress BookStatus = "in_progress"
	StatusFinished   BookStatus = "finished"
	StatusAbandoned  BookStatus = "abandoned"
)

// Valid returns true if the status is a recognized value.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusFinished, StatusAbandoned:
		return true
	default:
		return false
	}
}

// Book is a cataloged book together with its reading-session log.
// Sessions are append-only; they are created only as a side effect of
// progress updates and never edited afterwards.
type Book struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Author        string           `json:"author,omitempty"`
	TotalPages    int              `json:"total_pages"`
	CurrentPage   int              `json:"current_page"`
	Genre         Genre            `json:"genre"`
	Status        BookStatus       `json:"status"`
	Rating        *int             `json:"rating,omitempty"` // 1..5, only meaningful once finished
	Notes         string           `json:"notes,omitempty"`
	PhotoFilename string           `json:"photo_filename,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	DateStarted   *time.Time       `json:"date_started,omitempty"`
	DateFinished  *time.Time       `json:"date_finished,omitempty"`
	Sessions      []ReadingSession `json:"sessions"`
}

// NewBook creates a book with defaults applied: not started, page zero.
func NewBook(id, title, author string, totalPages int, genre Genre) *Book {
	if totalPages < 0 {
		totalPages = 0
	}
	return &Book{
		ID:         id,
		Title:      title,
		Author:     author,
		TotalPages: totalPages,
		Genre:      genre,
		Status:     StatusNotStarted,
		CreatedAt:  time.Now(),
	}
}

// ApplyProgress advances the book to newPage and returns the number of pages
// read, computed from the pre-clamp delta. The current page is then clamped to
// [0, TotalPages] and the status transition evaluated after clamping, so
// finishing wins when a single call crosses both zero and the final page.
func (b *Book) ApplyProgress(newPage int, now time.Time) int {
	if newPage < 0 {
		newPage = 0
	}

	pagesRead := max(0, newPage-b.CurrentPage)

	b.CurrentPage = min(newPage, b.TotalPages)

	if b.CurrentPage >= b.TotalPages {
		b.finish(now)
	} else if b.CurrentPage > 0 && b.Status == StatusNotStarted {
		b.Status = StatusInProgress
		if b.DateStarted == nil {
			b.DateStarted = &now
		}
	}

	return pagesRead
}

// MarkStarted transitions the book to in-progress and stamps the start date.
func (b *Book) MarkStarted(now time.Time) {
	b.Status = StatusInProgress
	b.DateStarted = &now
}

// MarkFinished completes the book: full page count, finished status, finish
// date, and the given rating if any.
func (b *Book) MarkFinished(now time.Time, rating *int) {
	b.CurrentPage = b.TotalPages
	b.finish(now)
	if rating != nil {
		b.Rating = rating
	}
}

// MarkAbandoned flips the status only, leaving all progress fields untouched.
func (b *Book) MarkAbandoned() {
	b.Status = StatusAbandoned
}

// finish sets finished status and finish date unless the book already finished.
// The finish date of the first completion is preserved on re-finishing.
func (b *Book) finish(now time.Time) {
	if b.Status == StatusFinished {
		return
	}
	b.Status = StatusFinished
	b.DateFinished = &now
}

// FinishedInYear reports whether the book was finished in the given calendar year.
func (b *Book) FinishedInYear(year int) bool {
	return b.Status == StatusFinished && b.DateFinished != nil && b.DateFinished.Year() == year
}

// AppendSession appends a session to the book's log. Sessions are owned
// exclusively by their book and immutable after this call.
func (b *Book) AppendSession(session ReadingSession) {
	b.Sessions = append(b.Sessions, session)
}

// ClampPages restores the page invariants after a wholesale update:
// non-negative totals and current page within [0, TotalPages].
func (b *Book) ClampPages() {
	if b.TotalPages < 0 {
		b.TotalPages = 0
	}
	if b.CurrentPage < 0 {
		b.CurrentPage = 0
	}
	if b.CurrentPage > b.TotalPages {
		b.CurrentPage = b.TotalPages
	}
}
