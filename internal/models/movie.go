package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// AgeRating is a certification from the fixed set accepted by the catalog.
type AgeRating string

const (
	RatingG    AgeRating = "G"
	RatingPG   AgeRating = "PG"
	RatingPG13 AgeRating = "PG-13"
	RatingR    AgeRating = "R"
	RatingNC17 AgeRating = "NC-17"
)

// AgeRatings lists all certifications in display order.
var AgeRatings = []AgeRating{RatingG, RatingPG, RatingPG13, RatingR, RatingNC17}

// Valid reports whether the rating belongs to the fixed set.
func (r AgeRating) Valid() bool {
	for _, known := range AgeRatings {
		if r == known {
			return true
		}
	}
	return false
}

// Actor is a cast member owned by a single movie. Image is a
// backend-relative path or an absolute URL.
type Actor struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Movie is a catalog entry as served by the movies API. The ID is assigned
// by the backend and absent before creation. Views is only populated on
// records used by the statistics view.
type Movie struct {
	ID          string    `json:"_id,omitempty"`
	Title       string    `json:"title"`
	AgeRating   AgeRating `json:"ageRating"`
	Poster      string    `json:"poster"`
	Producer    string    `json:"producer"`
	Story       string    `json:"story"`
	Actors      []Actor   `json:"actors"`
	Duration    string    `json:"duration"`
	Rating      float64   `json:"rating"`
	ReleaseYear int       `json:"releaseYear"`
	Views       *int64    `json:"views,omitempty"`
}

// MinReleaseYear is the year of the first motion picture.
const MinReleaseYear = 1888

// MaxReleaseYear returns the latest release year the catalog accepts.
func MaxReleaseYear() int {
	return time.Now().Year() + 5
}

var durationPattern = regexp.MustCompile(`^(\d+)h (\d+)min$`)

// ValidDuration reports whether s matches the "<h>h <m>min" format.
func ValidDuration(s string) bool {
	return durationPattern.MatchString(s)
}

// DurationMinutes parses a "<h>h <m>min" duration into total minutes.
// A persisted movie always carries a well-formed duration, so a parse
// failure here means the caller was handed corrupt data.
func DurationMinutes(s string) (int, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("malformed duration %q: want \"2h 30min\" format", s)
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q: %w", s, err)
	}
	return hours*60 + minutes, nil
}
