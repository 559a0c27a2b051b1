// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxivlens/pkg/types"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	old := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	_, err = store.Add(ctx, "older interest document", old)
	require.NoError(t, err)
	_, err = store.Add(ctx, "newer interest document", recent)
	require.NoError(t, err)

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Most recent first.
	assert.Equal(t, "newer interest document", docs[0].Text)
	assert.True(t, docs[0].AddedAt.Equal(recent))
	assert.Equal(t, "older interest document", docs[1].Text)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Clear(ctx))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStoreRejectsEmptyText(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Add(context.Background(), "   \n ", time.Now())
	require.Error(t, err)
}

func TestLoadOverview(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overview.md")
	require.NoError(t, os.WriteFile(path, []byte("  LLM-based paper triage.\n"), 0o644))

	docs, err := LoadOverview(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "LLM-based paper triage.", docs[0].Text)
	assert.False(t, docs[0].AddedAt.IsZero())
}

func TestLoadOverviewEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overview.md")
	require.NoError(t, os.WriteFile(path, []byte("  \n\t"), 0o644))

	_, err := LoadOverview(path)
	require.Error(t, err)
}

func TestLoadPrefersStoreOverOverview(t *testing.T) {
	dir := t.TempDir()
	overview := filepath.Join(dir, "overview.md")
	require.NoError(t, os.WriteFile(overview, []byte("overview text"), 0o644))

	corpusDir := filepath.Join(dir, "corpus")
	store, err := NewStore(corpusDir)
	require.NoError(t, err)
	_, err = store.Add(context.Background(), "stored interest", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	cfg := types.CorpusConfig{Dir: corpusDir, OverviewPath: overview}
	docs, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "stored interest", docs[0].Text)
}

func TestLoadFallsBackToOverview(t *testing.T) {
	dir := t.TempDir()
	overview := filepath.Join(dir, "overview.md")
	require.NoError(t, os.WriteFile(overview, []byte("overview text"), 0o644))

	cfg := types.CorpusConfig{Dir: filepath.Join(dir, "corpus"), OverviewPath: overview}
	docs, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "overview text", docs[0].Text)
}

func TestOverviewText(t *testing.T) {
	docs := []types.ReferenceDocument{{Text: "stored doc"}}

	text, err := OverviewText(types.CorpusConfig{}, docs)
	require.NoError(t, err)
	assert.Equal(t, "stored doc", text)

	_, err = OverviewText(types.CorpusConfig{}, nil)
	require.Error(t, err)
}
