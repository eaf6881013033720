package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readleafapp/readleaf-core/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "library"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// corruptGroup overwrites a persisted group with bytes that are not valid JSON.
func corruptGroup(t *testing.T, s *Store, key string) {
	t.Helper()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte("{not json"))
	})
	require.NoError(t, err)
}

func TestLoad_EmptyDatabaseDefaults(t *testing.T) {
	s := setupTestStore(t)

	lib := s.Load(context.Background())

	require.NotNil(t, lib)
	assert.Empty(t, lib.Books)
	assert.Nil(t, lib.Goal)
	require.NotNil(t, lib.Settings)
	assert.Equal(t, domain.DefaultDailyPageGoal, lib.Settings.DailyPageGoal)
	assert.Equal(t, domain.Streak{}, lib.Streak)
}

func TestSaveAndLoad_Books(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("book-1", "Dune", "Frank Herbert", 412, domain.GenreSciFi)
	book.ApplyProgress(50, time.Now())
	book.AppendSession(domain.ReadingSession{ID: "rs-1", Date: time.Now(), PagesRead: 50})

	require.NoError(t, s.SaveBooks(ctx, []*domain.Book{book}))

	lib := s.Load(ctx)
	require.Len(t, lib.Books, 1)
	got := lib.Books[0]
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 50, got.CurrentPage)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, 50, got.Sessions[0].PagesRead)
}

func TestSaveAndLoad_GoalSettingsStreak(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	goal := domain.NewReadingGoal("goal-1", 2025)
	goal.TargetBooks = 24
	require.NoError(t, s.SaveGoal(ctx, goal))
	require.NoError(t, s.SaveSettings(ctx, &domain.Settings{DailyPageGoal: 35}))
	require.NoError(t, s.SaveStreak(ctx, domain.Streak{Current: 4, Longest: 11}))

	lib := s.Load(ctx)
	require.NotNil(t, lib.Goal)
	assert.Equal(t, 2025, lib.Goal.Year)
	assert.Equal(t, 24, lib.Goal.TargetBooks)
	assert.Equal(t, 35, lib.Settings.DailyPageGoal)
	assert.Equal(t, domain.Streak{Current: 4, Longest: 11}, lib.Streak)
}

func TestLoad_CorruptGroupFallsBackToDefault(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Books corrupt, settings intact: only the corrupt group defaults.
	require.NoError(t, s.SaveSettings(ctx, &domain.Settings{DailyPageGoal: 35}))
	corruptGroup(t, s, keyBooks)

	lib := s.Load(ctx)
	assert.Empty(t, lib.Books)
	assert.Equal(t, 35, lib.Settings.DailyPageGoal)
}

func TestLoad_EachGroupDefaultsIndependently(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("book-1", "Dune", "", 412, domain.GenreSciFi)
	require.NoError(t, s.SaveBooks(ctx, []*domain.Book{book}))
	corruptGroup(t, s, keyGoal)
	corruptGroup(t, s, keySettings)
	corruptGroup(t, s, keyStreak)

	lib := s.Load(ctx)
	require.Len(t, lib.Books, 1)
	assert.Nil(t, lib.Goal)
	assert.Equal(t, domain.DefaultDailyPageGoal, lib.Settings.DailyPageGoal)
	assert.Equal(t, domain.Streak{}, lib.Streak)
}

func TestSaveBooks_OverwritesWholeCollection(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := domain.NewBook("book-1", "Dune", "", 412, domain.GenreSciFi)
	second := domain.NewBook("book-2", "Hyperion", "", 482, domain.GenreSciFi)
	require.NoError(t, s.SaveBooks(ctx, []*domain.Book{first, second}))

	// Rewriting with a smaller collection drops the removed book.
	require.NoError(t, s.SaveBooks(ctx, []*domain.Book{second}))

	lib := s.Load(ctx)
	require.Len(t, lib.Books, 1)
	assert.Equal(t, "book-2", lib.Books[0].ID)
}

func TestSave_CancelledContext(t *testing.T) {
	s := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SaveStreak(ctx, domain.Streak{Current: 1, Longest: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	first, err := Open(dir, logger)
	require.NoError(t, err)
	require.NoError(t, first.SaveStreak(ctx, domain.Streak{Current: 3, Longest: 9}))
	require.NoError(t, first.Close())

	second, err := Open(dir, logger)
	require.NoError(t, err)
	defer second.Close()

	lib := second.Load(ctx)
	assert.Equal(t, domain.Streak{Current: 3, Longest: 9}, lib.Streak)
}
