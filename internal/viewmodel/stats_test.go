package viewmodel

import (
	"testing"

	"github.com/medetbek/moviedb/internal/models"
)

func int64p(v int64) *int64 { return &v }

func statsMovies() []models.Movie {
	return []models.Movie{
		{Title: "First", Rating: 6.5, ReleaseYear: 1999, Views: int64p(2_500_000)},
		{Title: "Second", Rating: 9.0, ReleaseYear: 2010, Views: int64p(500_000)},
		{Title: "Third", Rating: 7.2, ReleaseYear: 1999},
	}
}

func TestRatingRanking(t *testing.T) {
	entries := RatingRanking(statsMovies())
	want := []string{"Second", "Third", "First"}

	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
	if entries[0].Rating != 9.0 || entries[0].Year != 2010 {
		t.Errorf("top entry = %+v, want rating 9.0 year 2010", entries[0])
	}
}

func TestViewsRankingConvertsToMillions(t *testing.T) {
	entries := ViewsRanking(statsMovies())

	if entries[0].Name != "First" || entries[0].Views != 2.5 {
		t.Errorf("top entry = %+v, want First with 2.5", entries[0])
	}
	// A record without a view count ranks last, as zero.
	if entries[2].Name != "Third" || entries[2].Views != 0 {
		t.Errorf("last entry = %+v, want Third with 0", entries[2])
	}
}

func TestMoviesByYear(t *testing.T) {
	counts := MoviesByYear(statsMovies())

	if len(counts) != 2 {
		t.Fatalf("got %d year buckets, want 2", len(counts))
	}
	if counts[0].Year != 1999 || counts[0].Count != 2 {
		t.Errorf("first bucket = %+v, want year 1999 count 2", counts[0])
	}
	if counts[0].Titles != "First, Third" {
		t.Errorf("first bucket titles = %q, want %q", counts[0].Titles, "First, Third")
	}
	if counts[1].Year != 2010 || counts[1].Count != 1 {
		t.Errorf("second bucket = %+v, want year 2010 count 1", counts[1])
	}
}

func TestStatsWithEmptyCollection(t *testing.T) {
	if got := RatingRanking(nil); len(got) != 0 {
		t.Errorf("RatingRanking(nil) returned %d entries, want 0", len(got))
	}
	if got := ViewsRanking(nil); len(got) != 0 {
		t.Errorf("ViewsRanking(nil) returned %d entries, want 0", len(got))
	}
	if got := MoviesByYear(nil); len(got) != 0 {
		t.Errorf("MoviesByYear(nil) returned %d buckets, want 0", len(got))
	}
}
