package viewmodel

import (
	"strings"

	"github.com/medetbek/moviedb/internal/models"
)

// Filter returns the movies whose title, producer, or any actor name
// contains the query, case-insensitively. An empty query matches
// everything; order is preserved.
func Filter(movies []models.Movie, query string) []models.Movie {
	term := strings.ToLower(query)

	matched := make([]models.Movie, 0, len(movies))
	for _, movie := range movies {
		if movieMatches(movie, term) {
			matched = append(matched, movie)
		}
	}
	return matched
}

func movieMatches(movie models.Movie, term string) bool {
	if strings.Contains(strings.ToLower(movie.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(movie.Producer), term) {
		return true
	}
	for _, actor := range movie.Actors {
		if strings.Contains(strings.ToLower(actor.Name), term) {
			return true
		}
	}
	return false
}

// ListView is the movie list page state: the search-matched subsequence
// plus enough context to tell an empty catalog apart from a query with
// no matches.
type ListView struct {
	Movies []models.Movie
	Query  string
	Total  int
}

// NewListView derives the list page state from the fetched collection
// and the shared search query.
func NewListView(movies []models.Movie, query string) ListView {
	return ListView{
		Movies: Filter(movies, query),
		Query:  query,
		Total:  len(movies),
	}
}

// CatalogEmpty reports that there are no movies in the catalog at all.
func (v ListView) CatalogEmpty() bool {
	return v.Total == 0
}

// NoMatches reports that a non-empty query matched nothing in a
// non-empty catalog.
func (v ListView) NoMatches() bool {
	return v.Total > 0 && v.Query != "" && len(v.Movies) == 0
}
