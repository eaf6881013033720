// Package service implements the tracker's mutation surface and its statistics engine.
package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/readleafapp/readleaf-core/domain"
	apperrors "github.com/readleafapp/readleaf-core/errors"
	"github.com/readleafapp/readleaf-core/id"
	"github.com/readleafapp/readleaf-core/store"
	"github.com/readleafapp/readleaf-core/validation"
)

// BookService owns the canonical in-memory book collection and is the sole
// mutation surface over it. The collection mirrors persisted state: every
// mutation rewrites the full collection to the store before returning.
//
// All calls are synchronous. A single mutex enforces the single-writer
// discipline; there is no per-book locking because every mutation is a
// whole-collection read/rewrite anyway.
type BookService struct {
	store    *store.Store
	validate *validation.Validator
	logger   *slog.Logger

	mu       sync.Mutex
	books    []*domain.Book
	goal     *domain.ReadingGoal
	settings *domain.Settings
	streak   domain.Streak
}

// NewBookService loads the library from the store and recomputes the streak
// cache once from the loaded session history.
func NewBookService(ctx context.Context, st *store.Store, validate *validation.Validator, logger *slog.Logger) *BookService {
	lib := st.Load(ctx)

	s := &BookService{
		store:    st,
		validate: validate,
		logger:   logger,
		books:    lib.Books,
		goal:     lib.Goal,
		settings: lib.Settings,
		streak:   lib.Streak,
	}

	// Startup recompute keeps the cache honest even if the previous process
	// died between a session append and the streak write.
	s.streak = domain.ComputeStreak(s.allSessionsLocked(), s.streak.Longest, time.Now())

	return s
}

// AddBookInput is the caller-supplied shape for a new book.
// All required fields are supplied atomically; books are never partially constructed.
type AddBookInput struct {
	ID            string       `json:"id"`
	Title         string       `json:"title" validate:"required,max=512"`
	Author        string       `json:"author" validate:"max=512"`
	TotalPages    int          `json:"total_pages" validate:"gte=0"`
	Genre         domain.Genre `json:"genre"`
	Notes         string       `json:"notes"`
	PhotoFilename string       `json:"photo_filename"`
}

// AddBook inserts a new book, assigning an ID when the caller did not supply
// one, and persists the collection.
func (s *BookService) AddBook(ctx context.Context, input AddBookInput) (*domain.Book, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}
	if input.Genre == "" {
		input.Genre = domain.GenreOther
	}
	if !input.Genre.Valid() {
		return nil, apperrors.Validationf("unknown genre %q", input.Genre)
	}

	bookID := input.ID
	if bookID == "" {
		generated, err := id.Generate("book")
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate book ID")
		}
		bookID = generated
	}

	book := domain.NewBook(bookID, input.Title, input.Author, input.TotalPages, input.Genre)
	book.Notes = input.Notes
	book.PhotoFilename = input.PhotoFilename

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(bookID) != nil {
		return nil, apperrors.Conflict("book " + bookID + " already exists")
	}

	s.books = append(s.books, book)

	s.logger.Debug("added book",
		"book_id", book.ID,
		"title", book.Title,
		"total_pages", book.TotalPages)

	if err := s.store.SaveBooks(ctx, s.books); err != nil {
		// In-memory state stays correct for this process; the caller decides
		// whether to retry the write.
		s.logger.Warn("failed to persist collection after add", "book_id", book.ID, "error", err)
		return book, err
	}
	return book, nil
}

// UpdateBook replaces the stored book matching its ID wholesale. There are no
// partial-field patch semantics. Returns a not-found error for stale IDs so
// callers can tell success from a silently dropped write.
func (s *BookService) UpdateBook(ctx context.Context, book *domain.Book) error {
	if book == nil || book.ID == "" {
		return apperrors.Validation("book with an ID is required")
	}
	if !book.Status.Valid() {
		return apperrors.Validationf("unknown status %q", book.Status)
	}
	if !book.Genre.Valid() {
		return apperrors.Validationf("unknown genre %q", book.Genre)
	}
	if book.Rating != nil && (*book.Rating < 1 || *book.Rating > 5) {
		return apperrors.Validationf("rating must be 1..5, got %d", *book.Rating)
	}
	book.ClampPages()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.books, func(b *domain.Book) bool { return b.ID == book.ID })
	if idx < 0 {
		return apperrors.NotFoundf("book %s", book.ID)
	}
	s.books[idx] = book

	return s.persistBooksLocked(ctx, "update", book.ID)
}

// DeleteBook removes the book with the given ID.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.books, func(b *domain.Book) bool { return b.ID == bookID })
	if idx < 0 {
		return apperrors.NotFoundf("book %s", bookID)
	}
	s.books = slices.Delete(s.books, idx, idx+1)

	s.logger.Debug("deleted book", "book_id", bookID)

	return s.persistBooksLocked(ctx, "delete", bookID)
}

// RecordProgress moves a book to newPage.
//
// The session is recorded from the pre-clamp delta, the page is clamped to the
// book's bounds, and the status transition is evaluated after clamping, so
// finishing wins when one call crosses both zero and the final page. A call
// that advances no pages appends no session and leaves the streak untouched.
// Returns the created session, or nil when no pages were read.
func (s *BookService) RecordProgress(ctx context.Context, bookID string, newPage int, minutes *int, note string) (*domain.ReadingSession, error) {
	if minutes != nil && *minutes < 0 {
		return nil, apperrors.Validationf("minutes must be non-negative, got %d", *minutes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.findLocked(bookID)
	if book == nil {
		return nil, apperrors.NotFoundf("book %s", bookID)
	}

	now := time.Now()
	pagesRead := book.ApplyProgress(newPage, now)

	var session *domain.ReadingSession
	if pagesRead > 0 {
		sessionID, err := id.Generate("rs")
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate session ID")
		}
		session = domain.NewReadingSession(sessionID, now, pagesRead, minutes, note)
		book.AppendSession(*session)

		s.streak = domain.ComputeStreak(s.allSessionsLocked(), s.streak.Longest, now)
		if err := s.store.SaveStreak(ctx, s.streak); err != nil {
			s.logger.Warn("failed to persist streak cache", "error", err)
		}
	}

	s.logger.Debug("recorded progress",
		"book_id", bookID,
		"new_page", book.CurrentPage,
		"pages_read", pagesRead,
		"status", book.Status)

	if err := s.persistBooksLocked(ctx, "progress", bookID); err != nil {
		return session, err
	}
	return session, nil
}

// StartReading transitions a book to in-progress and stamps the start date.
func (s *BookService) StartReading(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.findLocked(bookID)
	if book == nil {
		return apperrors.NotFoundf("book %s", bookID)
	}
	book.MarkStarted(time.Now())

	return s.persistBooksLocked(ctx, "start", bookID)
}

// FinishBook completes a book: full page count, finished status, finish date,
// and the rating if one is given.
func (s *BookService) FinishBook(ctx context.Context, bookID string, rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return apperrors.Validationf("rating must be 1..5, got %d", *rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.findLocked(bookID)
	if book == nil {
		return apperrors.NotFoundf("book %s", bookID)
	}
	book.MarkFinished(time.Now(), rating)

	return s.persistBooksLocked(ctx, "finish", bookID)
}

// Abandon flips a book's status to abandoned, leaving all progress fields untouched.
func (s *BookService) Abandon(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.findLocked(bookID)
	if book == nil {
		return apperrors.NotFoundf("book %s", bookID)
	}
	book.MarkAbandoned()

	return s.persistBooksLocked(ctx, "abandon", bookID)
}

// UpdateGoalInput is the caller-supplied shape for a yearly goal.
type UpdateGoalInput struct {
	Year        int `json:"year" validate:"gte=1"`
	TargetBooks int `json:"target_books" validate:"gt=0"`
	TargetPages int `json:"target_pages" validate:"gt=0"`
}

// UpdateGoal replaces the reading goal and persists it.
func (s *BookService) UpdateGoal(ctx context.Context, input UpdateGoalInput) (*domain.ReadingGoal, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goal := s.goal
	if goal == nil || goal.Year != input.Year {
		goalID, err := id.Generate("goal")
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate goal ID")
		}
		goal = domain.NewReadingGoal(goalID, input.Year)
	}
	goal.TargetBooks = input.TargetBooks
	goal.TargetPages = input.TargetPages
	s.goal = goal

	if err := s.store.SaveGoal(ctx, goal); err != nil {
		s.logger.Warn("failed to persist goal", "error", err)
		return goal, err
	}
	return goal, nil
}

// UpdateDailyGoal sets the daily page target and persists settings.
func (s *BookService) UpdateDailyGoal(ctx context.Context, pages int) error {
	if pages < 0 {
		return apperrors.Validationf("daily page goal must be non-negative, got %d", pages)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.DailyPageGoal = pages

	if err := s.store.SaveSettings(ctx, s.settings); err != nil {
		s.logger.Warn("failed to persist settings", "error", err)
		return err
	}
	return nil
}

// GetBook returns the book with the given ID.
func (s *BookService) GetBook(bookID string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.findLocked(bookID)
	if book == nil {
		return nil, apperrors.NotFoundf("book %s", bookID)
	}
	return book, nil
}

// Books returns the collection in insertion order.
func (s *BookService) Books() []*domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.books)
}

// BooksByStatus returns the books in one of the four status partitions.
func (s *BookService) BooksByStatus(status domain.BookStatus) []*domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Book
	for _, b := range s.books {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// BooksFinishedInYear returns books whose finish date falls in the given calendar year.
func (s *BookService) BooksFinishedInYear(year int) []*domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Book
	for _, b := range s.books {
		if b.FinishedInYear(year) {
			out = append(out, b)
		}
	}
	return out
}

// AllSessions flattens every book's session log into one slice.
func (s *BookService) AllSessions() []domain.ReadingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allSessionsLocked()
}

// Goal returns the current reading goal, or nil if none is set.
func (s *BookService) Goal() *domain.ReadingGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goal
}

// Settings returns the persisted scalar settings.
func (s *BookService) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.settings
}

// Streak returns the cached streak pair.
func (s *BookService) Streak() domain.Streak {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak
}

// findLocked locates a book by ID. Caller holds the mutex.
func (s *BookService) findLocked(bookID string) *domain.Book {
	for _, b := range s.books {
		if b.ID == bookID {
			return b
		}
	}
	return nil
}

// allSessionsLocked flattens session logs across all books. Caller holds the mutex.
func (s *BookService) allSessionsLocked() []domain.ReadingSession {
	var sessions []domain.ReadingSession
	for _, b := range s.books {
		sessions = append(sessions, b.Sessions...)
	}
	return sessions
}

// persistBooksLocked writes the whole collection, logging and surfacing failures.
// Caller holds the mutex.
func (s *BookService) persistBooksLocked(ctx context.Context, op, bookID string) error {
	if err := s.store.SaveBooks(ctx, s.books); err != nil {
		s.logger.Warn("failed to persist collection",
			"op", op,
			"book_id", bookID,
			"error", err)
		return err
	}
	return nil
}
