package domain

// Default yearly targets for a freshly created goal.
const (
	DefaultTargetBooks = 12
	DefaultTargetPages = 3600
)

// ReadingGoal is a yearly target for books finished and pages read.
// The UI treats the current year's goal as a singleton, but the entity carries
// its own year so historical goals stay representable.
type ReadingGoal struct {
	ID          string `json:"id"`
	Year        int    `json:"year"`
	TargetBooks int    `json:"target_books"`
	TargetPages int    `json:"target_pages"`
}

// NewReadingGoal creates a goal for the given year with default targets.
func NewReadingGoal(id string, year int) *ReadingGoal {
	return &ReadingGoal{
		ID:          id,
		Year:        year,
		TargetBooks: DefaultTargetBooks,
		TargetPages: DefaultTargetPages,
	}
}

// GoalProgress holds goal completion as uncapped fractions.
// Values can exceed 1.0; display code clamps for rendering.
type GoalProgress struct {
	Year          int     `json:"year"`
	BooksFinished int     `json:"books_finished"`
	PagesRead     int     `json:"pages_read"`
	BookFraction  float64 `json:"book_fraction"`
	PageFraction  float64 `json:"page_fraction"`
}
