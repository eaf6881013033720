package export

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readleafapp/readleaf-core/domain"
)

func testExporter() *SQLite {
	return NewSQLite(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExport_WritesBooksSessionsAndGoal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.sqlite")
	ctx := context.Background()

	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	book := domain.NewBook("book-1", "Dune", "Frank Herbert", 412, domain.GenreSciFi)
	book.ApplyProgress(50, now)
	book.AppendSession(domain.ReadingSession{ID: "rs-1", Date: now, PagesRead: 50})

	goal := domain.NewReadingGoal("goal-1", 2025)

	require.NoError(t, testExporter().Export(ctx, path, []*domain.Book{book}, goal))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var title, status string
	var currentPage int
	err = db.QueryRowContext(ctx,
		"SELECT title, status, current_page FROM books WHERE id = ?", "book-1").
		Scan(&title, &status, &currentPage)
	require.NoError(t, err)
	assert.Equal(t, "Dune", title)
	assert.Equal(t, "in_progress", status)
	assert.Equal(t, 50, currentPage)

	var pages int
	var bookID string
	err = db.QueryRowContext(ctx,
		"SELECT book_id, pages_read FROM reading_sessions WHERE id = ?", "rs-1").
		Scan(&bookID, &pages)
	require.NoError(t, err)
	assert.Equal(t, "book-1", bookID)
	assert.Equal(t, 50, pages)

	var targetBooks int
	err = db.QueryRowContext(ctx,
		"SELECT target_books FROM reading_goals WHERE year = ?", 2025).
		Scan(&targetBooks)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTargetBooks, targetBooks)
}

func TestExport_NullableFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.sqlite")
	ctx := context.Background()

	// Never started: no dates, no rating.
	book := domain.NewBook("book-2", "Hyperion", "Dan Simmons", 482, domain.GenreSciFi)

	require.NoError(t, testExporter().Export(ctx, path, []*domain.Book{book}, nil))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var rating sql.NullInt64
	var dateStarted, dateFinished sql.NullString
	err = db.QueryRowContext(ctx,
		"SELECT rating, date_started, date_finished FROM books WHERE id = ?", "book-2").
		Scan(&rating, &dateStarted, &dateFinished)
	require.NoError(t, err)
	assert.False(t, rating.Valid)
	assert.False(t, dateStarted.Valid)
	assert.False(t, dateFinished.Valid)

	var goals int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reading_goals").Scan(&goals))
	assert.Equal(t, 0, goals)
}

func TestExport_ReexportReplacesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.sqlite")
	ctx := context.Background()
	exporter := testExporter()

	book := domain.NewBook("book-1", "Dune", "", 412, domain.GenreSciFi)
	require.NoError(t, exporter.Export(ctx, path, []*domain.Book{book}, nil))

	book.Title = "Dune (revised)"
	require.NoError(t, exporter.Export(ctx, path, []*domain.Book{book}, nil))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&count))
	assert.Equal(t, 1, count)

	var title string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT title FROM books").Scan(&title))
	assert.Equal(t, "Dune (revised)", title)
}
