package domain

// DefaultDailyPageGoal is the out-of-the-box daily page target.
const DefaultDailyPageGoal = 20

// Settings holds the per-user scalar preferences persisted with the library.
type Settings struct {
	DailyPageGoal int `json:"daily_page_goal"`
}

// NewSettings creates settings with sensible defaults.
func NewSettings() *Settings {
	return &Settings{
		DailyPageGoal: DefaultDailyPageGoal,
	}
}
