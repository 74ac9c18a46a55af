// package formatter renders movie values for display and exports the favorites list to various formats (CSV,
// Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/cinex/internal/models"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (csv, markdown, text, json)", s)
	}
}

// Extension returns the file extension, with dot, for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// ExportToCSV converts movies to CSV format with columns: ID, Title, Year, Rating, Release Date, Poster
func ExportToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Rating", "Release Date", "Poster"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range movies {
		record := []string{
			strconv.Itoa(m.ID),
			m.Title,
			ReleaseYear(m.ReleaseDate),
			VoteAverage(m.VoteAverage),
			m.ReleaseDate,
			PosterURL(m.PosterPath),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts movies to a Markdown list with poster thumbnails when available
func ExportToMarkdown(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Favorites\n\n")
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(movies))

	if len(movies) == 0 {
		buf.WriteString("_No favorites yet._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("## Movies\n\n")
	for i, m := range movies {
		fmt.Fprintf(&buf, "%d. **%s**%s [%s]\n", i+1, m.Title, yearSuffix(m.ReleaseDate), VoteAverage(m.VoteAverage))
		if poster := ImageURL(m.PosterPath, PosterSmall); poster != "" {
			fmt.Fprintf(&buf, "   ![%s](%s)\n", m.Title, poster)
		}
		if m.Overview != "" {
			fmt.Fprintf(&buf, "   > %s\n", m.Overview)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts movies to plain text format
func ExportToText(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Favorites: %d\n\n", len(movies))
	for i, m := range movies {
		fmt.Fprintf(&buf, "%d. %s%s\n", i+1, m.Title, yearSuffix(m.ReleaseDate))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts movies to indented JSON in the same layout as the favorites store
func ExportToJSON(movies []models.Movie) ([]byte, error) {
	if movies == nil {
		movies = []models.Movie{}
	}
	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders movies in format.
func Export(movies []models.Movie, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(movies)
	case FormatMarkdown:
		return ExportToMarkdown(movies)
	case FormatText:
		return ExportToText(movies)
	case FormatJSON:
		return ExportToJSON(movies)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// WriteExport writes movies in format to path, creating parent directories as needed.
//
// Defaults to favorites{ext} in the working directory.
func WriteExport(movies []models.Movie, format Format, path string) (string, error) {
	if path == "" {
		path = "favorites" + format.Extension()
	}

	data, err := Export(movies, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func yearSuffix(date string) string {
	if y := ReleaseYear(date); y != "" {
		return " (" + y + ")"
	}
	return ""
}
