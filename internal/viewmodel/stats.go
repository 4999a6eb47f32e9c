package viewmodel

import (
	"sort"
	"strings"

	"github.com/medetbek/moviedb/internal/models"
)

// RatingEntry is one bar of the top-rated ranking.
type RatingEntry struct {
	Name   string
	Rating float64
	Year   int
}

// RatingRanking orders the collection by rating, highest first.
func RatingRanking(movies []models.Movie) []RatingEntry {
	sorted := make([]models.Movie, len(movies))
	copy(sorted, movies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})

	entries := make([]RatingEntry, 0, len(sorted))
	for _, m := range sorted {
		entries = append(entries, RatingEntry{Name: m.Title, Rating: m.Rating, Year: m.ReleaseYear})
	}
	return entries
}

// ViewsEntry is one bar of the most-viewed ranking, in millions.
type ViewsEntry struct {
	Name  string
	Views float64
	Year  int
}

// ViewsRanking orders the collection by view count, highest first.
// Records without a view count rank as zero.
func ViewsRanking(movies []models.Movie) []ViewsEntry {
	views := func(m models.Movie) int64 {
		if m.Views == nil {
			return 0
		}
		return *m.Views
	}

	sorted := make([]models.Movie, len(movies))
	copy(sorted, movies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return views(sorted[i]) > views(sorted[j])
	})

	entries := make([]ViewsEntry, 0, len(sorted))
	for _, m := range sorted {
		entries = append(entries, ViewsEntry{
			Name:  m.Title,
			Views: float64(views(m)) / 1_000_000,
			Year:  m.ReleaseYear,
		})
	}
	return entries
}

// YearCount is the number of catalog entries released in one year.
type YearCount struct {
	Year   int
	Count  int
	Titles string
}

// MoviesByYear counts releases per year, earliest year first, with the
// titles of that year joined for display.
func MoviesByYear(movies []models.Movie) []YearCount {
	byYear := map[int][]string{}
	for _, m := range movies {
		byYear[m.ReleaseYear] = append(byYear[m.ReleaseYear], m.Title)
	}

	counts := make([]YearCount, 0, len(byYear))
	for year, titles := range byYear {
		counts = append(counts, YearCount{
			Year:   year,
			Count:  len(titles),
			Titles: strings.Join(titles, ", "),
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Year < counts[j].Year
	})
	return counts
}
