package footage

import (
	"context"
	"testing"

	"sitecam/internal/timeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog() StaticCatalog {
	return StaticCatalog{
		"2025-04-04": {
			clip("2025-04-04", "14:50"),
			clip("2025-04-04", "14:55"),
			clip("2025-04-04", "15:00"),
			clip("2025-04-04", "15:10"),
		},
	}
}

type countingCatalog struct {
	Catalog
	calls int
}

func (c *countingCatalog) ListClips(ctx context.Context, date string) ([]timeline.Clip, error) {
	c.calls++
	return c.Catalog.ListClips(ctx, date)
}

func TestResolver_cachesPerKey(t *testing.T) {
	cat := &countingCatalog{Catalog: newTestCatalog()}
	r := NewResolver(cat, "https://cdn.example.com/site-a/", nil)

	u, err := r.ResolveURL(context.Background(), "2025-04-04_1455.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/site-a/2025-04-04_1455.mp4", u)

	again, err := r.ResolveURL(context.Background(), "2025-04-04_1455.mp4")
	require.NoError(t, err)
	assert.Equal(t, u, again)
	assert.Equal(t, 1, cat.calls)
	assert.Equal(t, 1, r.Cached())
}

func TestResolver_notFound(t *testing.T) {
	r := NewResolver(newTestCatalog(), "", nil)

	tests := []struct {
		desc string
		key  string
	}{
		{desc: "gap slot", key: "2025-04-04_1505.mp4"},
		{desc: "other day", key: "2025-04-03_1455.mp4"},
		{desc: "malformed", key: "clip.mp4"},
		{desc: "bad time", key: "2025-04-04_2575.mp4"},
		{desc: "empty", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := r.ResolveURL(context.Background(), tt.key)
			assert.ErrorIs(t, err, ErrClipNotFound)
		})
	}
	assert.Zero(t, r.Cached())
}

func TestResolver_defaultBaseURL(t *testing.T) {
	r := NewResolver(newTestCatalog(), "", nil)

	u, err := r.ResolveURL(context.Background(), "2025-04-04_1500.mp4")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/2025-04-04_1500.mp4", u)
}
