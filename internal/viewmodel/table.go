package viewmodel

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/medetbek/moviedb/internal/models"
)

// SortKey identifies a sortable table column.
type SortKey string

const (
	SortByTitle       SortKey = "title"
	SortByAgeRating   SortKey = "ageRating"
	SortByRating      SortKey = "rating"
	SortByDuration    SortKey = "duration"
	SortByReleaseYear SortKey = "releaseYear"
)

// SortDirection is the order of a sorted column.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortSpec pairs a column with a direction.
type SortSpec struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSort is the table's initial ordering.
func DefaultSort() SortSpec {
	return SortSpec{Key: SortByTitle, Direction: Ascending}
}

// Toggle returns the spec after a click on the given column: clicking
// the current ascending column flips it to descending, anything else
// resets to ascending on that column.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if s.Key == key && s.Direction == Ascending {
		return SortSpec{Key: key, Direction: Descending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

// Sort returns a newly ordered copy of the collection; the input slice
// is never reordered in place. Text columns compare case-insensitively
// with locale-aware collation, numeric columns by value, and duration
// by total minutes parsed from its fixed format. A malformed duration
// is a contract violation and fails loudly. An unknown key returns the
// copy unchanged.
func Sort(movies []models.Movie, spec SortSpec) ([]models.Movie, error) {
	sorted := make([]models.Movie, len(movies))
	copy(sorted, movies)

	var less func(a, b models.Movie) bool

	switch spec.Key {
	case SortByTitle:
		coll := collate.New(language.English, collate.IgnoreCase)
		less = func(a, b models.Movie) bool {
			return coll.CompareString(a.Title, b.Title) < 0
		}
	case SortByAgeRating:
		coll := collate.New(language.English, collate.IgnoreCase)
		less = func(a, b models.Movie) bool {
			return coll.CompareString(string(a.AgeRating), string(b.AgeRating)) < 0
		}
	case SortByRating:
		less = func(a, b models.Movie) bool {
			return a.Rating < b.Rating
		}
	case SortByReleaseYear:
		less = func(a, b models.Movie) bool {
			return a.ReleaseYear < b.ReleaseYear
		}
	case SortByDuration:
		// Parse up front so a malformed value surfaces as an error
		// instead of silently misordering the table.
		minutes := make(map[string]int, len(sorted))
		for _, m := range sorted {
			if _, ok := minutes[m.Duration]; ok {
				continue
			}
			mins, err := models.DurationMinutes(m.Duration)
			if err != nil {
				return nil, err
			}
			minutes[m.Duration] = mins
		}
		less = func(a, b models.Movie) bool {
			return minutes[a.Duration] < minutes[b.Duration]
		}
	default:
		return sorted, nil
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if spec.Direction == Descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted, nil
}
