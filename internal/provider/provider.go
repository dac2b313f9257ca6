// Package provider fetches raw job postings from ATS board endpoints.
//
// ATS boards are undocumented third-party surfaces that shift shape without
// notice, so each provider family carries an ordered list of candidate URL
// templates. A fetch walks the candidates and accepts the first response that
// parses as JSON and yields a non-empty postings list; every other outcome is
// swallowed, logged, and answered with the next candidate. Exhausting all
// candidates is a normal result (zero postings), never an error.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/resumatch/jobfeed/internal/model"
)

// Family identifies an ATS provider family.
type Family string

const (
	Lever      Family = "lever"
	Greenhouse Family = "greenhouse"
)

// Families returns the provider families tried for every company, in order.
func Families() []Family {
	return []Family{Lever, Greenhouse}
}

// Posting is one raw provider payload tagged with its family. Exactly one of
// the typed pointers is set, matching Family; Raw carries the original JSON.
// Postings never travel past the normalizer.
type Posting struct {
	Family     Family
	Lever      *LeverPosting
	Greenhouse *GreenhousePosting
	Raw        json.RawMessage
}

const (
	userAgent    = "jobfeed/1.0"
	maxBodyBytes = 4 << 20
)

// Fetcher fetches raw postings for (company, family) pairs with per-candidate
// timeouts and failure isolation.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	templates map[Family][]string
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher with the default candidate URL templates.
// timeout bounds each individual candidate request.
func NewFetcher(client *http.Client, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:  client,
		timeout: timeout,
		templates: map[Family][]string{
			Lever:      {leverAPITemplate, leverBoardTemplate},
			Greenhouse: {greenhouseAPITemplate, greenhouseEmbedTemplate},
		},
		logger: logger,
	}
}

// SetTemplates replaces the candidate URL templates for a family. Each
// template must contain one %s for the company slug. Used by tests to point
// at local servers.
func (f *Fetcher) SetTemplates(family Family, templates []string) {
	f.templates[family] = templates
}

// Fetch returns the raw postings for one company from one provider family.
// Candidates are tried in order; the first that yields a non-empty postings
// list wins. HTTP errors, non-2xx statuses, and parse failures are logged and
// skipped. When all candidates fail the result is simply empty.
func (f *Fetcher) Fetch(ctx context.Context, slug string, family Family) []Posting {
	for _, tmpl := range f.templates[family] {
		url := fmt.Sprintf(tmpl, slug)

		postings, err := f.tryCandidate(ctx, url, family)
		if err != nil {
			f.logger.Debug("candidate URL failed",
				"company", slug,
				"provider", string(family),
				"url", url,
				"error", err,
			)
			continue
		}

		f.logger.Info("candidate URL succeeded",
			"company", slug,
			"provider", string(family),
			"url", url,
			"postings", len(postings),
		)
		return postings
	}

	f.logger.Debug("all candidate URLs exhausted",
		"company", slug,
		"provider", string(family),
	)
	return nil
}

// Probe hits every candidate URL for (slug, family) without short-circuiting
// and reports one status row per candidate. Operational diagnostics only.
func (f *Fetcher) Probe(ctx context.Context, slug string, family Family) []model.ProviderStatus {
	statuses := make([]model.ProviderStatus, 0, len(f.templates[family]))
	for _, tmpl := range f.templates[family] {
		url := fmt.Sprintf(tmpl, slug)
		status, body, err := f.fetchCandidate(ctx, url)

		st := model.ProviderStatus{
			Company:  slug,
			Provider: string(family),
			URL:      url,
			Status:   status,
			Preview:  preview(body),
		}
		if err == nil {
			if postings, derr := decodePostings(family, body); derr == nil {
				st.OK = true
				st.ResultCount = len(postings)
			}
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// tryCandidate fetches and decodes one candidate URL. Any failure, including
// an empty postings list, is returned as an error so the caller moves on.
func (f *Fetcher) tryCandidate(ctx context.Context, url string, family Family) ([]Posting, error) {
	_, body, err := f.fetchCandidate(ctx, url)
	if err != nil {
		return nil, err
	}

	postings, err := decodePostings(family, body)
	if err != nil {
		return nil, err
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("response contains no postings")
	}
	return postings, nil
}

// fetchCandidate performs the HTTP request with the per-candidate timeout and
// returns (status, body). A non-2xx status is reported as a model.HTTPError
// alongside the status code so Probe can still record it.
func (f *Fetcher) fetchCandidate(ctx context.Context, url string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("fetching %s", url),
		}
	}
	return resp.StatusCode, body, nil
}

// decodePostings extracts the postings list from a response body, accepting
// the top-level shapes the boards are known to use: a bare array, or an
// object carrying a "postings" or "jobs" array.
func decodePostings(family Family, body []byte) ([]Posting, error) {
	elems, err := rawElements(body)
	if err != nil {
		return nil, err
	}

	postings := make([]Posting, 0, len(elems))
	for _, elem := range elems {
		p := Posting{Family: family, Raw: elem}
		switch family {
		case Lever:
			var lp LeverPosting
			if err := json.Unmarshal(elem, &lp); err != nil {
				return nil, fmt.Errorf("decoding lever posting: %w", err)
			}
			p.Lever = &lp
		case Greenhouse:
			var gp GreenhousePosting
			if err := json.Unmarshal(elem, &gp); err != nil {
				return nil, fmt.Errorf("decoding greenhouse posting: %w", err)
			}
			p.Greenhouse = &gp
		default:
			return nil, fmt.Errorf("unknown provider family %q", family)
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// rawElements splits the response body into raw posting elements.
func rawElements(body []byte) ([]json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, nil
	}

	var wrapper struct {
		Postings []json.RawMessage `json:"postings"`
		Jobs     []json.RawMessage `json:"jobs"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("response is neither a postings array nor a postings/jobs object: %w", err)
	}
	if len(wrapper.Postings) > 0 {
		return wrapper.Postings, nil
	}
	return wrapper.Jobs, nil
}

// preview collapses a response body to a short single-line excerpt,
// truncated on a rune boundary.
func preview(body []byte) string {
	const maxLen = 140
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
