package formatter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TMDBImageBaseURL is the prefix of every TMDB image URL.
const TMDBImageBaseURL = "https://image.tmdb.org/t/p/"

// Image sizes served by TMDB.
const (
	PosterSmall    = "w185"
	PosterMedium   = "w342"
	PosterLarge    = "w500"
	BackdropSmall  = "w300"
	BackdropMedium = "w780"
	BackdropLarge  = "w1280"
	SizeOriginal   = "original"
)

// NotAvailable stands in for missing numeric values.
const NotAvailable = "N/A"

// Runtime formats minutes as "2h 5min". Zero or negative runtimes are unknown.
func Runtime(minutes int) string {
	if minutes <= 0 {
		return NotAvailable
	}

	h, m := minutes/60, minutes%60
	parts := make([]string, 0, 2)
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", m))
	}
	return strings.Join(parts, " ")
}

// ReleaseYear returns the year of a "2006-01-02" release date, or "" when the date is missing or malformed.
func ReleaseYear(date string) string {
	if date == "" {
		return ""
	}
	if t, err := time.Parse(time.DateOnly, date); err == nil {
		return strconv.Itoa(t.Year())
	}
	if len(date) >= 4 {
		if _, err := strconv.Atoi(date[:4]); err == nil {
			return date[:4]
		}
	}
	return ""
}

// VoteAverage formats a rating with one decimal. Unrated movies (0) are [NotAvailable].
func VoteAverage(vote float64) string {
	if vote <= 0 || math.IsNaN(vote) {
		return NotAvailable
	}
	return strconv.FormatFloat(vote, 'f', 1, 64)
}

// ImageURL builds the URL of a TMDB image path at size. A nil or empty path yields "".
func ImageURL(path *string, size string) string {
	if path == nil || *path == "" {
		return ""
	}
	return TMDBImageBaseURL + size + *path
}

// PosterURL is [ImageURL] at the medium poster size.
func PosterURL(path *string) string {
	return ImageURL(path, PosterMedium)
}

// BackdropURL is [ImageURL] at the large backdrop size.
func BackdropURL(path *string) string {
	return ImageURL(path, BackdropLarge)
}

// YouTubeEmbedURL returns the embeddable player URL of a YouTube video key.
func YouTubeEmbedURL(key string) string {
	return "https://www.youtube.com/embed/" + url.PathEscape(key)
}

// YouTubeWatchURL returns the watch page URL of a YouTube video key, for opening in a browser.
func YouTubeWatchURL(key string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
}
