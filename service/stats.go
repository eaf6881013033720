package service

import (
	"log/slog"
	"slices"
	"time"

	"github.com/readleafapp/readleaf-core/domain"
)

// StatsService derives aggregate values from the book collection.
//
// Every derivation is a pure function of current state and the wall clock,
// recomputed on each call; only the streak is cached, and that cache lives
// with the BookService because it is updated on the write path.
type StatsService struct {
	books  *BookService
	logger *slog.Logger
}

// NewStatsService creates a stats service reading from the given collection.
func NewStatsService(books *BookService, logger *slog.Logger) *StatsService {
	return &StatsService{
		books:  books,
		logger: logger,
	}
}

// Summary returns the headline collection counts.
//
// PagesReadThisYear and TotalPagesRead count by book size over finished books.
// Windowed totals (PagesRead) count session pages instead; the two notions
// coexist deliberately and answer different questions.
func (s *StatsService) Summary() *domain.LibrarySummary {
	now := time.Now()
	summary := &domain.LibrarySummary{}

	for _, b := range s.books.Books() {
		switch b.Status {
		case domain.StatusNotStarted:
			summary.NotStarted++
		case domain.StatusInProgress:
			summary.InProgress++
		case domain.StatusFinished:
			summary.Finished++
			summary.TotalPagesRead += b.TotalPages
			if b.FinishedInYear(now.Year()) {
				summary.FinishedThisYear++
				summary.PagesReadThisYear += b.TotalPages
			}
		case domain.StatusAbandoned:
			summary.Abandoned++
		}
	}

	return summary
}

// PagesRead sums session pages across all books within the period ending now.
// Sessions from every book count, not just in-progress ones.
func (s *StatsService) PagesRead(period domain.StatsPeriod) int {
	return sessionPagesInRange(s.books.AllSessions(), period, time.Now())
}

// PagesReadToday returns session pages logged on the current calendar day.
func (s *StatsService) PagesReadToday() int {
	return s.PagesRead(domain.StatsPeriodDay)
}

// PagesReadThisWeek returns session pages since the start of the week (Monday).
func (s *StatsService) PagesReadThisWeek() int {
	return s.PagesRead(domain.StatsPeriodWeek)
}

// PagesReadThisMonth returns session pages since the first of the month.
func (s *StatsService) PagesReadThisMonth() int {
	return s.PagesRead(domain.StatsPeriodMonth)
}

// AveragePagesPerDay divides total session pages by the days elapsed since the
// earliest session. The divisor is floored at one day so a same-day-only
// history does not divide by zero or inflate the average.
func (s *StatsService) AveragePagesPerDay() float64 {
	return averagePagesPerDay(s.books.AllSessions(), time.Now())
}

// GenreBreakdown groups all books by genre, sorted descending by count.
// Ties break on the genre enumeration order so the result is deterministic
// despite being built from a map.
func (s *StatsService) GenreBreakdown() []domain.GenreCount {
	counts := make(map[domain.Genre]int)
	for _, b := range s.books.Books() {
		counts[b.Genre]++
	}

	breakdown := make([]domain.GenreCount, 0, len(counts))
	for genre, count := range counts {
		breakdown = append(breakdown, domain.GenreCount{Genre: genre, Count: count})
	}

	slices.SortFunc(breakdown, func(a, b domain.GenreCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return a.Genre.Order() - b.Genre.Order()
	})

	return breakdown
}

// MonthlyTrend returns session-page totals per calendar month for the last
// months, counting back from the current month inclusive, oldest first.
func (s *StatsService) MonthlyTrend(months int) []domain.MonthlyPages {
	return monthlyTrend(s.books.AllSessions(), months, time.Now())
}

// GoalProgress returns goal completion as uncapped fractions; values can
// exceed 1.0 and display code clamps them. Returns nil when no goal is set.
func (s *StatsService) GoalProgress() *domain.GoalProgress {
	goal := s.books.Goal()
	if goal == nil {
		return nil
	}

	finished := len(s.books.BooksFinishedInYear(goal.Year))
	pages := 0
	for _, b := range s.books.BooksFinishedInYear(goal.Year) {
		pages += b.TotalPages
	}

	progress := &domain.GoalProgress{
		Year:          goal.Year,
		BooksFinished: finished,
		PagesRead:     pages,
	}
	if goal.TargetBooks > 0 {
		progress.BookFraction = float64(finished) / float64(goal.TargetBooks)
	}
	if goal.TargetPages > 0 {
		progress.PageFraction = float64(pages) / float64(goal.TargetPages)
	}
	return progress
}

// CurrentStreak returns the cached count of consecutive reading days.
func (s *StatsService) CurrentStreak() int {
	return s.books.Streak().Current
}

// LongestStreak returns the cached historic maximum streak.
func (s *StatsService) LongestStreak() int {
	return s.books.Streak().Longest
}

// RecomputeStreak derives the streak from the full session history without
// touching the cache. The cache must always equal this value; tests hold the
// two together.
func (s *StatsService) RecomputeStreak() domain.Streak {
	return domain.ComputeStreak(s.books.AllSessions(), s.books.Streak().Longest, time.Now())
}

// MetDailyGoalToday reports whether today's session pages meet the daily page goal.
func (s *StatsService) MetDailyGoalToday() bool {
	goal := s.books.Settings().DailyPageGoal
	if goal <= 0 {
		return false
	}
	return s.PagesReadToday() >= goal
}

// sessionPagesInRange sums session pages inside a period's bounds relative to now.
func sessionPagesInRange(sessions []domain.ReadingSession, period domain.StatsPeriod, now time.Time) int {
	start, end := period.Bounds(now)

	total := 0
	for _, sess := range sessions {
		date := sess.Date.In(now.Location())
		if (start.IsZero() || !date.Before(start)) && date.Before(end) {
			total += sess.PagesRead
		}
	}
	return total
}

// averagePagesPerDay computes total session pages over elapsed reading days.
func averagePagesPerDay(sessions []domain.ReadingSession, now time.Time) float64 {
	if len(sessions) == 0 {
		return 0
	}

	total := 0
	earliest := sessions[0].Date
	for _, sess := range sessions {
		total += sess.PagesRead
		if sess.Date.Before(earliest) {
			earliest = sess.Date
		}
	}

	days := int(domain.StartOfDay(now).Sub(domain.StartOfDay(earliest.In(now.Location()))).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return float64(total) / float64(days)
}

// monthlyTrend buckets session pages by calendar month, oldest first.
func monthlyTrend(sessions []domain.ReadingSession, months int, now time.Time) []domain.MonthlyPages {
	if months <= 0 {
		return nil
	}

	loc := now.Location()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	trend := make([]domain.MonthlyPages, 0, months)
	for i := months - 1; i >= 0; i-- {
		trend = append(trend, domain.MonthlyPages{Month: firstOfMonth.AddDate(0, -i, 0)})
	}

	for _, sess := range sessions {
		date := sess.Date.In(loc)
		bucket := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, loc)
		for i := range trend {
			if trend[i].Month.Equal(bucket) {
				trend[i].Pages += sess.PagesRead
				break
			}
		}
	}

	return trend
}
