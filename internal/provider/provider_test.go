package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestFetcher() *Fetcher {
	return NewFetcher(&http.Client{}, 5*time.Second, testLogger())
}

const leverPayload = `[
	{
		"id": "ff7ef527-b0d3-4c44-836a-8d6b58ac321e",
		"text": "Software Engineer",
		"description": "<div>Full HTML description</div>",
		"descriptionPlain": "Plain text job description",
		"categories": {
			"team": "Engineering",
			"location": "San Francisco, CA",
			"commitment": "Full-time",
			"allLocations": ["San Francisco, CA", "Remote"]
		},
		"createdAt": 1769784074110,
		"hostedUrl": "https://jobs.lever.co/acme/ff7ef527"
	},
	{
		"id": "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		"text": "Backend Engineer",
		"description": "<div>Backend job description</div>",
		"categories": {"location": "Remote"},
		"hostedUrl": "https://jobs.lever.co/acme/a1b2c3d4"
	}
]`

const greenhousePayload = `{
	"jobs": [
		{
			"id": 4252,
			"title": "Platform Engineer",
			"location": {"name": "New York, NY"},
			"absolute_url": "https://boards.greenhouse.io/acme/jobs/4252",
			"updated_at": "2026-08-01T12:00:00Z",
			"content": "&lt;p&gt;Build things.&lt;/p&gt;"
		}
	]
}`

func TestFetchLeverBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(leverPayload))
	}))
	defer srv.Close()

	f := newTestFetcher()
	f.SetTemplates(Lever, []string{srv.URL + "/%s"})

	postings := f.Fetch(context.Background(), "acme", Lever)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	if postings[0].Family != Lever {
		t.Errorf("expected family lever, got %s", postings[0].Family)
	}
	if postings[0].Lever == nil {
		t.Fatal("expected typed lever posting to be set")
	}
	if postings[0].Lever.Text != "Software Engineer" {
		t.Errorf("expected title Software Engineer, got %s", postings[0].Lever.Text)
	}
	if postings[0].Greenhouse != nil {
		t.Error("greenhouse pointer must be nil on a lever posting")
	}
	if len(postings[0].Raw) == 0 {
		t.Error("expected raw payload to be preserved")
	}
}

func TestFetchGreenhouseJobsObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(greenhousePayload))
	}))
	defer srv.Close()

	f := newTestFetcher()
	f.SetTemplates(Greenhouse, []string{srv.URL + "/%s"})

	postings := f.Fetch(context.Background(), "acme", Greenhouse)
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	gp := postings[0].Greenhouse
	if gp == nil {
		t.Fatal("expected typed greenhouse posting to be set")
	}
	if gp.ID != 4252 || gp.Title != "Platform Engineer" {
		t.Errorf("unexpected posting: %+v", gp)
	}
	if gp.Location.Name != "New York, NY" {
		t.Errorf("expected location New York, NY, got %s", gp.Location.Name)
	}
}

func TestFetchPostingsObjectShape(t *testing.T) {
	payload := `{"postings": [{"id": "x1", "text": "SRE"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	f := newTestFetcher()
	f.SetTemplates(Lever, []string{srv.URL + "/%s"})

	postings := f.Fetch(context.Background(), "acme", Lever)
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting from postings-object shape, got %d", len(postings))
	}
	if postings[0].Lever.Text != "SRE" {
		t.Errorf("expected title SRE, got %s", postings[0].Lever.Text)
	}
}

func TestFetchFallsBackToSecondCandidate(t *testing.T) {
	var firstCalls, secondCalls atomic.Int64

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		firstCalls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer failing.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondCalls.Add(1)
		w.Write([]byte(leverPayload))
	}))
	defer working.Close()

	f := newTestFetcher()
	f.SetTemplates(Lever, []string{failing.URL + "/%s", working.URL + "/%s"})

	postings := f.Fetch(context.Background(), "acme", Lever)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings via second candidate, got %d", len(postings))
	}
	if firstCalls.Load() != 1 || secondCalls.Load() != 1 {
		t.Errorf("expected each candidate hit once, got %d and %d", firstCalls.Load(), secondCalls.Load())
	}
}

func TestFetchAllCandidatesFailReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher()
	f.SetTemplates(Lever, []string{srv.URL + "/%s", srv.URL + "/alt/%s"})

	postings := f.Fetch(context.Background(), "ghost-co", Lever)
	if len(postings) != 0 {
		t.Errorf("expected 0 postings when all candidates fail, got %d", len(postings))
	}
}

func TestFetchMalformedJSONTriesNextCandidate(t *testing.T) {
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer garbage.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(leverPayload))
	}))
	defer working.Close()

	f := newTestFetcher()
	f.SetTemplates(Lever, []string{garbage.URL + "/%s", working.URL + "/%s"})

	postings := f.Fetch(context.Background(), "acme", Lever)
	if len(postings) != 2 {
		t.Fatalf("expected fallback past malformed JSON, got %d postings", len(postings))
	}
}

func TestFetchEmptyListTriesNextCandidate(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer empty.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(leverPayload))
	}))
	defer working.Close()

	f := newTestFetcher()
	f.SetTemplates(Lever, []string{empty.URL + "/%s", working.URL + "/%s"})

	postings := f.Fetch(context.Background(), "acme", Lever)
	if len(postings) != 2 {
		t.Fatalf("expected fallback past empty list, got %d postings", len(postings))
	}
}

func TestProbeReportsEveryCandidate(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(leverPayload))
	}))
	defer ok.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer broken.Close()

	f := newTestFetcher()
	f.SetTemplates(Lever, []string{ok.URL + "/%s", broken.URL + "/%s"})

	statuses := f.Probe(context.Background(), "acme", Lever)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 status rows, got %d", len(statuses))
	}

	if !statuses[0].OK || statuses[0].Status != http.StatusOK || statuses[0].ResultCount != 2 {
		t.Errorf("unexpected first status: %+v", statuses[0])
	}
	if statuses[1].OK || statuses[1].Status != http.StatusGone {
		t.Errorf("unexpected second status: %+v", statuses[1])
	}
	if statuses[0].Company != "acme" || statuses[0].Provider != "lever" {
		t.Errorf("status missing identity fields: %+v", statuses[0])
	}
	if statuses[0].Preview == "" {
		t.Error("expected a body preview on success")
	}
}

func TestFetchCandidateTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(leverPayload))
	}))
	defer slow.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(leverPayload))
	}))
	defer working.Close()

	f := NewFetcher(&http.Client{}, 50*time.Millisecond, testLogger())
	f.SetTemplates(Lever, []string{slow.URL + "/%s", working.URL + "/%s"})

	postings := f.Fetch(context.Background(), "acme", Lever)
	if len(postings) != 2 {
		t.Fatalf("expected timeout on first candidate and success on second, got %d postings", len(postings))
	}
}

func TestPreviewTruncatesOnRuneBoundary(t *testing.T) {
	// 140 ASCII bytes, then a multi-byte rune straddling the cut point.
	body := []byte(strings.Repeat("a", 139) + "日本語")

	got := preview(body)
	if !utf8.ValidString(got) {
		t.Errorf("preview produced invalid UTF-8: %q", got)
	}
	if len(got) > 140 {
		t.Errorf("preview too long: %d bytes", len(got))
	}
	if got != strings.Repeat("a", 139) {
		t.Errorf("expected truncation before the split rune, got %q", got)
	}
}
