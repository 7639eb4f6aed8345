package footage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(window int) *Service {
	cat := newTestCatalog()
	return NewService(cat, NewResolver(cat, "http://cdn", nil), window, nil)
}

func TestService_ListClips(t *testing.T) {
	svc := newTestService(0)

	clips, err := svc.ListClips(context.Background(), "2025-04-04")
	require.NoError(t, err)
	assert.Equal(t, []string{"14:50", "14:55", "15:00", "15:10"}, starts(clips))

	_, err = svc.ListClips(context.Background(), "04-04-2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestService_Playlist(t *testing.T) {
	svc := newTestService(0)

	got, err := svc.Playlist(context.Background(), "2025-04-04", "14:55")
	require.NoError(t, err)

	assert.Contains(t, got, "http://cdn/2025-04-04_1455.mp4\n")
	assert.Contains(t, got, "http://cdn/2025-04-04_1500.mp4\n")
	assert.NotContains(t, got, "2025-04-04_1450.mp4")
	assert.NotContains(t, got, "2025-04-04_1510.mp4")
	assert.True(t, strings.HasSuffix(got, "#EXT-X-ENDLIST\n"))
}

func TestService_Playlist_normalizesFrom(t *testing.T) {
	svc := newTestService(0)

	got, err := svc.Playlist(context.Background(), "2025-04-04", "15:10")
	require.NoError(t, err)
	assert.Contains(t, got, "#EXT-X-MEDIA-SEQUENCE:182\n")
}

func TestService_Playlist_window(t *testing.T) {
	svc := newTestService(1)

	got, err := svc.Playlist(context.Background(), "2025-04-04", "")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "#EXTINF"))
	assert.NotContains(t, got, "#EXT-X-ENDLIST")
}

func TestService_Playlist_unknownFrom(t *testing.T) {
	svc := newTestService(0)

	_, err := svc.Playlist(context.Background(), "2025-04-04", "15:05")
	assert.ErrorIs(t, err, ErrClipNotFound)

	_, err = svc.Playlist(context.Background(), "2025-04-04", "noon")
	assert.ErrorIs(t, err, ErrClipNotFound)
}

func TestService_Playlist_emptyDay(t *testing.T) {
	svc := newTestService(0)

	got, err := svc.Playlist(context.Background(), "2025-04-01", "")
	require.NoError(t, err)
	assert.Contains(t, got, "#EXT-X-MEDIA-SEQUENCE:0\n")
	assert.True(t, strings.HasSuffix(got, "#EXT-X-ENDLIST\n"))
}

func TestService_LatestClip(t *testing.T) {
	svc := newTestService(0)

	latest, err := svc.LatestClip(context.Background(), "2025-04-04")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "15:10", latest.StartTime)

	none, err := svc.LatestClip(context.Background(), "2025-04-01")
	require.NoError(t, err)
	assert.Nil(t, none)
}
