package store

import (
	"context"

	"github.com/readleafapp/readleaf-core/domain"
)

// Library is the persisted state of the tracker: the whole book collection
// plus the goal, settings, and streak cache groups.
type Library struct {
	Books    []*domain.Book
	Goal     *domain.ReadingGoal
	Settings *domain.Settings
	Streak   domain.Streak
}

// Load reads all four persisted groups. Loading is all-or-nothing per group:
// a group that is missing or fails to decode is replaced by its default, and
// the failure is logged rather than surfaced. Startup never fails on corrupt
// local state.
func (s *Store) Load(ctx context.Context) *Library {
	lib := &Library{
		Books:    []*domain.Book{},
		Settings: domain.NewSettings(),
	}
	if err := ctx.Err(); err != nil {
		return lib
	}

	var books []*domain.Book
	if s.tryLoad(keyBooks, &books) && books != nil {
		lib.Books = books
	}

	var goal domain.ReadingGoal
	if s.tryLoad(keyGoal, &goal) && goal.Year != 0 {
		lib.Goal = &goal
	}

	var settings domain.Settings
	if s.tryLoad(keySettings, &settings) {
		lib.Settings = &settings
	}

	var streak domain.Streak
	if s.tryLoad(keyStreak, &streak) {
		lib.Streak = streak
	}

	if s.logger != nil {
		s.logger.Info("library loaded",
			"books", len(lib.Books),
			"has_goal", lib.Goal != nil,
			"streak_current", lib.Streak.Current,
			"streak_longest", lib.Streak.Longest)
	}

	return lib
}

// SaveBooks persists the whole collection. No partial or delta writes exist;
// every mutation rewrites the full document.
func (s *Store) SaveBooks(ctx context.Context, books []*domain.Book) error {
	return s.save(ctx, keyBooks, books)
}

// SaveGoal persists the reading goal.
func (s *Store) SaveGoal(ctx context.Context, goal *domain.ReadingGoal) error {
	return s.save(ctx, keyGoal, goal)
}

// SaveSettings persists the scalar settings.
func (s *Store) SaveSettings(ctx context.Context, settings *domain.Settings) error {
	return s.save(ctx, keySettings, settings)
}

// SaveStreak persists the streak cache.
func (s *Store) SaveStreak(ctx context.Context, streak domain.Streak) error {
	return s.save(ctx, keyStreak, streak)
}
