package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook_Defaults(t *testing.T) {
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)

	require.NotNil(t, book)
	assert.Equal(t, "book-1", book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, 412, book.TotalPages)
	assert.Equal(t, 0, book.CurrentPage)
	assert.Equal(t, GenreSciFi, book.Genre)
	assert.Equal(t, StatusNotStarted, book.Status)
	assert.Nil(t, book.Rating)
	assert.Nil(t, book.DateStarted)
	assert.Nil(t, book.DateFinished)
	assert.False(t, book.CreatedAt.IsZero())
}

func TestNewBook_NegativeTotalPagesClampedToZero(t *testing.T) {
	book := NewBook("book-1", "Pamphlet", "", -5, GenreOther)
	assert.Equal(t, 0, book.TotalPages)
}

func TestApplyProgress_StartsBookOnFirstPage(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)

	pagesRead := book.ApplyProgress(50, now)

	assert.Equal(t, 50, pagesRead)
	assert.Equal(t, 50, book.CurrentPage)
	assert.Equal(t, StatusInProgress, book.Status)
	require.NotNil(t, book.DateStarted)
	assert.Equal(t, now, *book.DateStarted)
	assert.Nil(t, book.DateFinished)
}

func TestApplyProgress_DeltaFromCurrentPage(t *testing.T) {
	now := time.Now()
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(50, now)

	pagesRead := book.ApplyProgress(100, now)

	assert.Equal(t, 50, pagesRead)
	assert.Equal(t, 100, book.CurrentPage)
}

func TestApplyProgress_BackwardsMoveReadsZeroPages(t *testing.T) {
	now := time.Now()
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(100, now)

	pagesRead := book.ApplyProgress(40, now)

	assert.Equal(t, 0, pagesRead)
	assert.Equal(t, 40, book.CurrentPage)
	assert.Equal(t, StatusInProgress, book.Status)
}

func TestApplyProgress_SamePageIsIdempotent(t *testing.T) {
	now := time.Now()
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(100, now)

	pagesRead := book.ApplyProgress(100, now)

	assert.Equal(t, 0, pagesRead)
	assert.Equal(t, 100, book.CurrentPage)
}

func TestApplyProgress_ClampsAboveTotalPages(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(400, now)

	// Overshoot: the delta counts the claimed pages, the position clamps.
	pagesRead := book.ApplyProgress(500, now)

	assert.Equal(t, 100, pagesRead)
	assert.Equal(t, 412, book.CurrentPage)
	assert.Equal(t, StatusFinished, book.Status)
	require.NotNil(t, book.DateFinished)
	assert.Equal(t, now, *book.DateFinished)
}

func TestApplyProgress_NegativePageClampsToZero(t *testing.T) {
	now := time.Now()
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(100, now)

	pagesRead := book.ApplyProgress(-10, now)

	assert.Equal(t, 0, pagesRead)
	assert.Equal(t, 0, book.CurrentPage)
}

func TestApplyProgress_ReachingLastPageFinishes(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)

	pagesRead := book.ApplyProgress(412, now)

	assert.Equal(t, 412, pagesRead)
	assert.Equal(t, StatusFinished, book.Status)
	require.NotNil(t, book.DateFinished)
}

func TestApplyProgress_ZeroPageBookFinishesImmediately(t *testing.T) {
	// A zero-page book sits at its final page from the start, so any
	// progress update completes it.
	now := time.Now()
	book := NewBook("book-1", "Empty Notebook", "", 0, GenreOther)

	pagesRead := book.ApplyProgress(0, now)

	assert.Equal(t, 0, pagesRead)
	assert.Equal(t, StatusFinished, book.Status)
}

func TestApplyProgress_RefinishKeepsOriginalFinishDate(t *testing.T) {
	first := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	later := first.AddDate(0, 1, 0)
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(412, first)

	book.ApplyProgress(412, later)

	require.NotNil(t, book.DateFinished)
	assert.Equal(t, first, *book.DateFinished)
}

func TestMarkStarted(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)

	book.MarkStarted(now)

	assert.Equal(t, StatusInProgress, book.Status)
	require.NotNil(t, book.DateStarted)
	assert.Equal(t, now, *book.DateStarted)
	assert.Equal(t, 0, book.CurrentPage)
}

func TestMarkFinished_SetsPageRatingAndDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	rating := 5
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(200, now)

	book.MarkFinished(now, &rating)

	assert.Equal(t, StatusFinished, book.Status)
	assert.Equal(t, 412, book.CurrentPage)
	require.NotNil(t, book.Rating)
	assert.Equal(t, 5, *book.Rating)
	require.NotNil(t, book.DateFinished)
}

func TestMarkFinished_NilRatingLeavesRatingUntouched(t *testing.T) {
	now := time.Now()
	rating := 4
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.Rating = &rating

	book.MarkFinished(now, nil)

	require.NotNil(t, book.Rating)
	assert.Equal(t, 4, *book.Rating)
}

func TestMarkAbandoned_KeepsProgress(t *testing.T) {
	now := time.Now()
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(150, now)

	book.MarkAbandoned()

	assert.Equal(t, StatusAbandoned, book.Status)
	assert.Equal(t, 150, book.CurrentPage)
	assert.NotNil(t, book.DateStarted)
}

func TestFinishedInYear(t *testing.T) {
	finished := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	book := NewBook("book-1", "Dune", "Frank Herbert", 412, GenreSciFi)
	book.ApplyProgress(412, finished)

	assert.True(t, book.FinishedInYear(2025))
	assert.False(t, book.FinishedInYear(2024))

	inProgress := NewBook("book-2", "Hyperion", "Dan Simmons", 482, GenreSciFi)
	assert.False(t, inProgress.FinishedInYear(2025))
}

func TestClampPages(t *testing.T) {
	tests := []struct {
		name        string
		totalPages  int
		currentPage int
		wantTotal   int
		wantCurrent int
	}{
		{name: "within bounds", totalPages: 300, currentPage: 150, wantTotal: 300, wantCurrent: 150},
		{name: "current above total", totalPages: 300, currentPage: 400, wantTotal: 300, wantCurrent: 300},
		{name: "negative current", totalPages: 300, currentPage: -5, wantTotal: 300, wantCurrent: 0},
		{name: "negative total", totalPages: -10, currentPage: 5, wantTotal: 0, wantCurrent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &Book{TotalPages: tt.totalPages, CurrentPage: tt.currentPage}
			book.ClampPages()
			assert.Equal(t, tt.wantTotal, book.TotalPages)
			assert.Equal(t, tt.wantCurrent, book.CurrentPage)
		})
	}
}

func TestBookStatus_Valid(t *testing.T) {
	assert.True(t, StatusNotStarted.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusFinished.Valid())
	assert.True(t, StatusAbandoned.Valid())
	assert.False(t, BookStatus("reading").Valid())
}
