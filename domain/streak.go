package domain

import "time"

// dayKey is the calendar-day format used for streak bookkeeping.
const dayKey = "2006-01-02"

// Streak tracks consecutive reading days. Current counts the run ending today
// or yesterday; Longest is the historic maximum and never decreases.
//
// The pair is persisted as a cache for fast reads, but it must always equal a
// recompute from the full session history. That law is enforced by tests, not
// by assertions in the write path.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreak derives the streak from session history.
//
// Multiple sessions on one calendar day count as a single day read. A day with
// no reading yet (today) does not break a streak that ran through yesterday,
// but it does not count either. longest carries the previously recorded
// maximum so the longest streak stays monotonic across recomputes.
func ComputeStreak(sessions []ReadingSession, longest int, now time.Time) Streak {
	if len(sessions) == 0 {
		return Streak{Current: 0, Longest: longest}
	}

	days := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		days[s.Date.In(now.Location()).Format(dayKey)] = true
	}

	cursor := StartOfDay(now)
	if !days[cursor.Format(dayKey)] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	current := 0
	for days[cursor.Format(dayKey)] {
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return Streak{Current: current, Longest: max(longest, current)}
}
