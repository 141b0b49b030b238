// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
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

// RankingFixture serves canned ranking API responses.
//
// Bodies are raw JSON so malformed payloads can be served too. A partition or request missing from the
// fixture answers 404.
type RankingFixture struct {
	Top      string         // Body for /requests/top
	BelowTop string         // Body for /requests/belowTop
	Details  map[int]string // Bodies for /request/{id}

	mu   sync.Mutex
	hits map[string]int
}

// NewRankingServer starts an [httptest.Server] for f. It is closed when the test ends.
func NewRankingServer(t *testing.T, f *RankingFixture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv
}

func (f *RankingFixture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	if f.hits == nil {
		f.hits = make(map[string]int)
	}
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	body, ok := f.lookup(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func (f *RankingFixture) lookup(path string) (string, bool) {
	switch path {
	case "/requests/top":
		return f.Top, f.Top != ""
	case "/requests/belowTop":
		return f.BelowTop, f.BelowTop != ""
	}

	idStr, found := strings.CutPrefix(path, "/request/")
	if !found {
		return "", false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return "", false
	}
	body, ok := f.Details[id]
	return body, ok
}

// Hits returns how many times path was requested.
func (f *RankingFixture) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// QueueEntryJSON renders a queue entry in the ranking API's wire format.
func QueueEntryJSON(requestID int, songName, songHash, levelAuthor string, ranks ...int) string {
	diffs := make([]string, len(ranks))
	for i, r := range ranks {
		diffs[i] = fmt.Sprintf(`{"difficulty":%d}`, r)
	}
	return fmt.Sprintf(
		`{"requestId":%d,"leaderboardInfo":{"songName":%q,"songHash":%q,"levelAuthorName":%q},"difficulties":[%s]}`,
		requestID, songName, songHash, levelAuthor, strings.Join(diffs, ","),
	)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
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

func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
