// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/cinex/internal/models"
)

// Call records one invocation of a [MockProvider] method.
type Call struct {
	Method string
	Arg    string
	Page   int
}

// MockProvider is a test double for services.Provider.
//
// Each method delegates to its Func field when set; otherwise list methods return a single empty page and lookups
// return zero values. Every call is recorded.
type MockProvider struct {
	mu    sync.Mutex
	calls []Call

	TrendingFunc func(window string, page int) (*models.Page, error)
	SearchFunc   func(query string, page int) (*models.Page, error)
	DiscoverFunc func(params models.DiscoverParams, page int) (*models.Page, error)
	DetailFunc   func(id int) (*models.MovieDetail, error)
	CreditsFunc  func(id int) (*models.Credits, error)
	VideosFunc   func(id int) (*models.VideoList, error)
	SimilarFunc  func(id int) (*models.Page, error)
	GenresFunc   func() ([]models.Genre, error)
}

func (m *MockProvider) record(method, arg string, page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, Arg: arg, Page: page})
}

// Calls returns a copy of the recorded calls in order.
func (m *MockProvider) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many times method was called.
func (m *MockProvider) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Trending(ctx context.Context, window string, page int) (*models.Page, error) {
	m.record("Trending", window, page)
	if m.TrendingFunc != nil {
		return m.TrendingFunc(window, page)
	}
	return NewPage(page, 1), nil
}

func (m *MockProvider) Search(ctx context.Context, query string, page int) (*models.Page, error) {
	m.record("Search", query, page)
	if m.SearchFunc != nil {
		return m.SearchFunc(query, page)
	}
	return NewPage(page, 1), nil
}

func (m *MockProvider) Discover(ctx context.Context, params models.DiscoverParams, page int) (*models.Page, error) {
	m.record("Discover", fmt.Sprintf("%d/%d/%s", params.Genre, params.Year, params.SortBy), page)
	if m.DiscoverFunc != nil {
		return m.DiscoverFunc(params, page)
	}
	return NewPage(page, 1), nil
}

func (m *MockProvider) MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	m.record("MovieDetail", strconv.Itoa(id), 0)
	if m.DetailFunc != nil {
		return m.DetailFunc(id)
	}
	return &models.MovieDetail{Movie: NewMovie(id)}, nil
}

func (m *MockProvider) Credits(ctx context.Context, id int) (*models.Credits, error) {
	m.record("Credits", strconv.Itoa(id), 0)
	if m.CreditsFunc != nil {
		return m.CreditsFunc(id)
	}
	return &models.Credits{ID: id}, nil
}

func (m *MockProvider) Videos(ctx context.Context, id int) (*models.VideoList, error) {
	m.record("Videos", strconv.Itoa(id), 0)
	if m.VideosFunc != nil {
		return m.VideosFunc(id)
	}
	return &models.VideoList{}, nil
}

func (m *MockProvider) Similar(ctx context.Context, id int) (*models.Page, error) {
	m.record("Similar", strconv.Itoa(id), 1)
	if m.SimilarFunc != nil {
		return m.SimilarFunc(id)
	}
	return NewPage(1, 1), nil
}

func (m *MockProvider) Genres(ctx context.Context) ([]models.Genre, error) {
	m.record("Genres", "", 0)
	if m.GenresFunc != nil {
		return m.GenresFunc()
	}
	return []models.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, nil
}

// NewMovie returns a movie fixture titled "Movie <id>".
func NewMovie(id int, genres ...int) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       fmt.Sprintf("Movie %d", id),
		ReleaseDate: "2024-05-01",
		VoteAverage: 7.5,
		GenreIDs:    genres,
	}
}

// NewPage returns page of totalPages holding fixtures for ids.
func NewPage(page, totalPages int, ids ...int) *models.Page {
	results := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		results = append(results, NewMovie(id))
	}
	return &models.Page{Page: page, TotalPages: totalPages, TotalResults: len(ids), Results: results}
}

// MovieIDs returns the ids of movies in order.
func MovieIDs(movies []models.Movie) []int {
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}

// FailingStore is a key/value store whose every operation fails with Err.
type FailingStore struct {
	Err error
}

func (f *FailingStore) Get(key string) (string, bool, error) { return "", false, f.Err }
func (f *FailingStore) Set(key, value string) error          { return f.Err }
func (f *FailingStore) Delete(key string) error              { return f.Err }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
