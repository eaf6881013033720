package domain

import "time"

// StatsPeriod represents a time window for page-total queries.
type StatsPeriod string

// StatsPeriod constants for time window queries.
const (
	StatsPeriodDay     StatsPeriod = "day"
	StatsPeriodWeek    StatsPeriod = "week"
	StatsPeriodMonth   StatsPeriod = "month"
	StatsPeriodYear    StatsPeriod = "year"
	StatsPeriodAllTime StatsPeriod = "all"
)

// Valid returns true if the period is a recognized value.
func (p StatsPeriod) Valid() bool {
	switch p {
	case StatsPeriodDay, StatsPeriodWeek, StatsPeriodMonth, StatsPeriodYear, StatsPeriodAllTime:
		return true
	default:
		return false
	}
}

// Bounds returns the start and end times for a period relative to now.
// Start is inclusive, end is exclusive and always midnight tomorrow.
// Weeks start on Monday.
func (p StatsPeriod) Bounds(now time.Time) (start, end time.Time) {
	today := StartOfDay(now)
	endOfToday := today.AddDate(0, 0, 1)

	switch p {
	case StatsPeriodDay:
		return today, endOfToday
	case StatsPeriodWeek:
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		return today.AddDate(0, 0, -(weekday - 1)), endOfToday
	case StatsPeriodMonth:
		year, month, _ := today.Date()
		return time.Date(year, month, 1, 0, 0, 0, 0, today.Location()), endOfToday
	case StatsPeriodYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()), endOfToday
	case StatsPeriodAllTime:
		return time.Time{}, endOfToday
	default:
		return today, endOfToday
	}
}

// StartOfDay truncates an instant to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day,
// compared in a's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// LibrarySummary holds the headline collection counts.
//
// Pages here are counted by book size over finished books. Windowed totals
// (today, this week, this month) come from session logs instead; the two
// notions coexist deliberately and must not be conflated.
type LibrarySummary struct {
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Finished   int `json:"finished"`
	Abandoned  int `json:"abandoned"`

	FinishedThisYear  int `json:"finished_this_year"`
	PagesReadThisYear int `json:"pages_read_this_year"`
	TotalPagesRead    int `json:"total_pages_read"`
}

// TotalBooks returns the size of the collection across all partitions.
func (s *LibrarySummary) TotalBooks() int {
	return s.NotStarted + s.InProgress + s.Finished + s.Abandoned
}

// GenreCount is one entry of a genre breakdown.
type GenreCount struct {
	Genre Genre `json:"genre"`
	Count int   `json:"count"`
}

// MonthlyPages is the session-page total for one calendar month.
type MonthlyPages struct {
	Month time.Time `json:"month"` // first day of the month
	Pages int       `json:"pages"`
}
