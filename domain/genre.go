package domain

// Genre is one of a fixed set of book categories.
// The enumeration order is deliberate: it is the tie-break for breakdown
// sorting, so genre counts come out deterministic regardless of map iteration.
type Genre string

// The fixed genre enumeration.
const (
	GenreFiction    Genre = "fiction"
	GenreNonFiction Genre = "non_fiction"
	GenreMystery    Genre = "mystery"
	GenreSciFi      Genre = "sci_fi"
	GenreFantasy    Genre = "fantasy"
	GenreRomance    Genre = "romance"
	GenreThriller   Genre = "thriller"
	GenreBiography  Genre = "biography"
	GenreHistory    Genre = "history"
	GenreSelfHelp   Genre = "self_help"
	GenrePoetry     Genre = "poetry"
	GenreOther      Genre = "other"
)

// genreOrder is the canonical enumeration order.
var genreOrder = []Genre{
	GenreFiction,
	GenreNonFiction,
	GenreMystery,
	GenreSciFi,
	GenreFantasy,
	GenreRomance,
	GenreThriller,
	GenreBiography,
	GenreHistory,
	GenreSelfHelp,
	GenrePoetry,
	GenreOther,
}

// Genres returns the full enumeration in canonical order.
func Genres() []Genre {
	out := make([]Genre, len(genreOrder))
	copy(out, genreOrder)
	return out
}

// Valid returns true if the genre is part of the enumeration.
func (g Genre) Valid() bool {
	return g.Order() < len(genreOrder)
}

// Order returns the genre's position in the enumeration.
// Unknown genres sort after all known ones.
func (g Genre) Order() int {
	for i, known := range genreOrder {
		if g == known {
			return i
		}
	}
	return len(genreOrder)
}
