// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed retrieves candidate papers from the arXiv announcement feed.
//
// The primary path reads the RSS/Atom feed for a query (e.g. "cs.AI+cs.LG")
// and keeps entries announced as new, then resolves full metadata through
// the export API in batches. When the feed carries no new announcements
// (weekends, holidays), two fallbacks apply in order: the feed entries from
// the latest two publication dates, then an API search restricted to the
// same window.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mudler/xlog"

	"github.com/pdiddy/arxivlens/pkg/types"
)

// announceTypeNew marks a first-time announcement in the arXiv feed.
const announceTypeNew = "new"

// resolveBatchSize is the number of IDs resolved per export API call.
const resolveBatchSize = 20

// oaiPrefix precedes every entry ID in the arXiv OAI feed.
const oaiPrefix = "oai:arXiv.org:"

// Fetch retrieves candidate papers for the configured query. It returns an
// empty slice (not an error) when the feed and both fallbacks yield nothing.
func Fetch(ctx context.Context, client *http.Client, cfg types.FeedConfig) ([]*types.Paper, error) {
	if strings.TrimSpace(cfg.Query) == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	doc, err := fetchFeed(ctx, client, cfg)
	if err != nil {
		return nil, err
	}

	if strings.Contains(doc.Title, "Feed error for query") {
		return nil, fmt.Errorf("invalid arXiv query %q", cfg.Query)
	}

	ids := newEntryIDs(doc)
	if len(ids) == 0 {
		ids = latestWindowEntryIDs(doc, fallbackDays(cfg))
		if len(ids) > 0 {
			xlog.Info("no new arXiv announcements; using latest-window feed entries", "count", len(ids))
		}
	}

	if len(ids) == 0 {
		xlog.Info("no usable feed entries; falling back to API search", "query", cfg.Query)
		return searchLatestWindow(ctx, client, cfg)
	}

	return resolveIDs(ctx, client, cfg, ids)
}

// fallbackDays returns the configured publication-date window width, default 2.
func fallbackDays(cfg types.FeedConfig) int {
	if cfg.FallbackDays <= 0 {
		return 2
	}
	return cfg.FallbackDays
}

// newEntryIDs returns IDs of entries announced as new, in feed order.
func newEntryIDs(doc *feedDoc) []string {
	var ids []string
	for _, entry := range doc.Entries {
		if entry.AnnounceType != announceTypeNew {
			continue
		}
		if id := strings.TrimPrefix(entry.ID, oaiPrefix); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// latestWindowEntryIDs returns IDs of entries published within the latest
// `days` distinct publication dates seen in the feed, regardless of
// announcement type.
func latestWindowEntryIDs(doc *feedDoc, days int) []string {
	type dated struct {
		at time.Time
		id string
	}
	var entries []dated
	for _, entry := range doc.Entries {
		at := entry.publishedTime()
		if at.IsZero() {
			continue
		}
		entries = append(entries, dated{at: at, id: strings.TrimPrefix(entry.ID, oaiPrefix)})
	}
	if len(entries) == 0 {
		return nil
	}

	latest := entries[0].at
	for _, e := range entries[1:] {
		if e.at.After(latest) {
			latest = e.at
		}
	}
	cutoff := latest.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))

	var ids []string
	for _, e := range entries {
		if !e.at.UTC().Truncate(24 * time.Hour).Before(cutoff) {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// resolveIDs fetches full metadata for the given arXiv IDs in batches and
// returns papers in resolution order.
func resolveIDs(ctx context.Context, client *http.Client, cfg types.FeedConfig, ids []string) ([]*types.Paper, error) {
	var papers []*types.Paper
	for i := 0; i < len(ids); i += resolveBatchSize {
		end := i + resolveBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := fetchByIDList(ctx, client, cfg, ids[i:end])
		if err != nil {
			return nil, fmt.Errorf("resolving arXiv IDs %d-%d: %w", i, end-1, err)
		}
		papers = append(papers, batch...)
		xlog.Debug("resolved arXiv batch", "resolved", len(papers), "total", len(ids))
	}
	return papers, nil
}

// searchLatestWindow queries the export API sorted by submission date and
// keeps papers from the latest `days` distinct publication dates. Results
// arrive newest first, so iteration stops at the first paper older than the
// window.
func searchLatestWindow(ctx context.Context, client *http.Client, cfg types.FeedConfig) ([]*types.Paper, error) {
	results, err := searchRecent(ctx, client, cfg)
	if err != nil {
		return nil, err
	}

	days := fallbackDays(cfg)
	var (
		papers []*types.Paper
		oldest time.Time
	)
	for _, p := range results {
		if p.Published.IsZero() {
			continue
		}
		day := p.Published.UTC().Truncate(24 * time.Hour)
		if oldest.IsZero() {
			// The first (newest) result anchors the window.
			oldest = day.AddDate(0, 0, -(days - 1))
		}
		if day.Before(oldest) {
			break
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// normalizeQueryForAPI converts an RSS-style query ("cs.AI+cs.LG") into an
// export API search expression ("cat:cs.AI OR cat:cs.LG"). Queries that
// already look like API expressions pass through.
func normalizeQueryForAPI(query string) string {
	cleaned := strings.TrimSpace(query)
	if cleaned == "" {
		return cleaned
	}
	parts := make([]string, 0, 4)
	for _, part := range strings.Split(cleaned, "+") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return cleaned
	}
	allCategories := true
	for _, part := range parts {
		if !strings.Contains(part, ".") || strings.Contains(part, ":") {
			allCategories = false
			break
		}
	}
	if allCategories {
		for i, part := range parts {
			parts[i] = "cat:" + part
		}
		return strings.Join(parts, " OR ")
	}
	if strings.Contains(cleaned, "+") && !strings.Contains(cleaned, " ") {
		return strings.ReplaceAll(cleaned, "+", " ")
	}
	return cleaned
}
