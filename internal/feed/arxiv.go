// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/arxivlens/internal/httputil"
	"github.com/pdiddy/arxivlens/pkg/types"
)

// Feed and API endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	arxivFeedBase = "https://rss.arxiv.org/atom/"
	arxivAPIBase  = "https://export.arxiv.org/api/query"
)

// fetchFeed downloads and parses the announcement feed for the query.
func fetchFeed(ctx context.Context, client *http.Client, cfg types.FeedConfig) (*feedDoc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivFeedBase+cfg.Query, nil)
	if err != nil {
		return nil, fmt.Errorf("creating feed request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv feed returned HTTP %d", resp.StatusCode)
	}

	var doc feedDoc
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}
	return &doc, nil
}

// fetchByIDList resolves a batch of arXiv IDs via the export API.
func fetchByIDList(ctx context.Context, client *http.Client, cfg types.FeedConfig, ids []string) ([]*types.Paper, error) {
	params := url.Values{
		"id_list":     {strings.Join(ids, ",")},
		"max_results": {fmt.Sprintf("%d", len(ids))},
	}
	return queryAPI(ctx, client, cfg, params)
}

// searchRecent queries the export API for the newest submissions matching
// the query, descending by submission date.
func searchRecent(ctx context.Context, client *http.Client, cfg types.FeedConfig) ([]*types.Paper, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 200
	}
	params := url.Values{
		"search_query": {normalizeQueryForAPI(cfg.Query)},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", maxResults)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	return queryAPI(ctx, client, cfg, params)
}

func queryAPI(ctx context.Context, client *http.Client, cfg types.FeedConfig, params url.Values) ([]*types.Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed apiFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv API response: %w", err)
	}

	var papers []*types.Paper
	for _, entry := range feed.Entries {
		if p := entry.toPaper(); p != nil {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// --- announcement feed XML structures ---

type feedDoc struct {
	Title   string      `xml:"title"`
	Entries []feedEntry `xml:"entry"`
}

type feedEntry struct {
	ID           string `xml:"id"`
	AnnounceType string `xml:"announce_type"`
	Published    string `xml:"published"`
	Updated      string `xml:"updated"`
}

// publishedTime returns the entry timestamp, preferring published over
// updated, or the zero time when neither parses.
func (e feedEntry) publishedTime() time.Time {
	for _, raw := range []string{e.Published, e.Updated} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// --- export API XML structures ---

type apiFeed struct {
	Entries []apiEntry `xml:"entry"`
}

type apiEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Summary    string        `xml:"summary"`
	Published  string        `xml:"published"`
	Authors    []apiAuthor   `xml:"author"`
	Categories []apiCategory `xml:"category"`
}

type apiAuthor struct {
	Name string `xml:"name"`
}

type apiCategory struct {
	Term string `xml:"term,attr"`
}

// absIDPattern extracts the identifier from an abs URL such as
// "http://arxiv.org/abs/2301.07041v1".
var absIDPattern = regexp.MustCompile(`/abs/(.+)$`)

// collapseSpace collapses runs of whitespace (arXiv wraps titles and
// abstracts with hard newlines).
var collapseSpace = regexp.MustCompile(`\s+`)

func (e apiEntry) toPaper() *types.Paper {
	m := absIDPattern.FindStringSubmatch(e.ID)
	if m == nil {
		return nil
	}

	p := &types.Paper{
		ID:      types.NormalizeArxivID(m[1]),
		Title:   collapseSpace.ReplaceAllString(strings.TrimSpace(e.Title), " "),
		Summary: collapseSpace.ReplaceAllString(strings.TrimSpace(e.Summary), " "),
	}

	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		p.Published = t.UTC()
	}
	return p
}
