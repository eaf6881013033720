package domain

import "time"

// ReadingSession is the atomic, immutable record of reading activity.
// Sessions are append-only - streaks and windowed page totals derive from them.
// A session always covers at least one page; zero-page sessions are never created.
type ReadingSession struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	PagesRead int       `json:"pages_read"`
	Minutes   *int      `json:"minutes,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// NewReadingSession creates a session record for pages read at the given instant.
func NewReadingSession(id string, date time.Time, pagesRead int, minutes *int, note string) *ReadingSession {
	return &ReadingSession{
		ID:        id,
		Date:      date,
		PagesRead: pagesRead,
		Minutes:   minutes,
		Note:      note,
	}
}

// OnDay reports whether the session falls on the given calendar day.
// Sessions carry instants but all day-level logic compares calendar days.
func (s *ReadingSession) OnDay(day time.Time) bool {
	sy, sm, sd := s.Date.In(day.Location()).Date()
	dy, dm, dd := day.Date()
	return sy == dy && sm == dm && sd == dd
}
