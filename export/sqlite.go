// Package export writes a SQLite snapshot of the library for backup and interop.
package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/readleafapp/readleaf-core/domain"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLite writes library snapshots to standalone .sqlite files.
type SQLite struct {
	logger *slog.Logger
}

// NewSQLite creates a SQLite exporter.
func NewSQLite(logger *slog.Logger) *SQLite {
	return &SQLite{logger: logger}
}

// Export writes books, their sessions, and the goal to a SQLite file at path.
// The whole snapshot is written in one transaction; a failed export leaves no
// partial rows behind.
func (e *SQLite) Export(ctx context.Context, path string, books []*domain.Book, goal *domain.ReadingGoal) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("exec pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	sessionCount := 0
	for _, book := range books {
		if err := insertBook(ctx, tx, book); err != nil {
			return fmt.Errorf("insert book %s: %w", book.ID, err)
		}
		for i := range book.Sessions {
			if err := insertSession(ctx, tx, book.ID, &book.Sessions[i]); err != nil {
				return fmt.Errorf("insert session %s: %w", book.Sessions[i].ID, err)
			}
			sessionCount++
		}
	}

	if goal != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO reading_goals (id, year, target_books, target_pages) VALUES (?, ?, ?, ?)`,
			goal.ID, goal.Year, goal.TargetBooks, goal.TargetPages)
		if err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	e.logger.Info("exported library snapshot",
		"path", path,
		"books", len(books),
		"sessions", sessionCount)

	return nil
}

func insertBook(ctx context.Context, tx *sql.Tx, b *domain.Book) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO books
		 (id, title, author, total_pages, current_page, genre, status, rating, notes, photo_filename, created_at, date_started, date_finished)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.TotalPages, b.CurrentPage, string(b.Genre), string(b.Status),
		b.Rating, b.Notes, b.PhotoFilename,
		b.CreatedAt.Format(time.RFC3339Nano), formatTime(b.DateStarted), formatTime(b.DateFinished))
	return err
}

func insertSession(ctx context.Context, tx *sql.Tx, bookID string, s *domain.ReadingSession) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO reading_sessions (id, book_id, date, pages_read, minutes, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, bookID, s.Date.Format(time.RFC3339Nano), s.PagesRead, s.Minutes, s.Note)
	return err
}

// formatTime renders an optional timestamp, or nil for a SQL NULL.
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}
