package timeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	mu      sync.Mutex
	fail    map[string]bool
	block   chan struct{}
	lookups []string
}

func (r *fakeResolver) ResolveURL(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	r.lookups = append(r.lookups, key)
	block, fail := r.block, r.fail[key]
	r.mu.Unlock()

	if block != nil {
		<-block
	}
	if fail {
		return "", errors.New("no such clip")
	}
	return "https://cdn.test/" + key, nil
}

type recordingPreloader struct {
	got chan string
}

func (p *recordingPreloader) Preload(_ context.Context, clip Clip, url string) {
	p.got <- url
}

func dayClips(t *testing.T, keys ...string) []Clip {
	t.Helper()
	clips := make([]Clip, 0, len(keys))
	for _, k := range keys {
		clips = append(clips, clipAt(t, k))
	}
	return clips
}

func TestPlayer_select_computes_next(t *testing.T) {
	ctx := context.Background()
	p := NewPlayer(nil, nil, nil)
	p.SetClips(ctx, "2025-04-04", dayClips(t, "10:15", "10:00", "10:05"))

	assert.True(t, p.State().Idle())

	p.SelectClip(ctx, clipAt(t, "10:00"))
	st := p.State()
	require.NotNil(t, st.Current)
	require.NotNil(t, st.Next)
	assert.Equal(t, "10:00", st.Current.StartTime)
	assert.Equal(t, "10:05", st.Next.StartTime)
	assert.True(t, st.Consecutive)
	assert.False(t, st.IsPlaying, "selection alone does not start playback")
	assert.Equal(t, 3, st.ClipCount)

	p.SelectClip(ctx, clipAt(t, "10:15"))
	assert.Nil(t, p.State().Next, "last clip of the day has no next")
}

func TestPlayer_auto_advance(t *testing.T) {
	ctx := context.Background()
	p := NewPlayer(nil, nil, nil)
	p.SetClips(ctx, "2025-04-04", dayClips(t, "10:00", "10:05", "10:15"))

	p.SelectClip(ctx, clipAt(t, "10:00"))
	p.Play()
	p.OnTimeUpdate(299.5)
	p.OnClipEnded(ctx)

	st := p.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, "10:05", st.Current.StartTime)
	assert.True(t, st.IsPlaying)
	assert.Equal(t, 0.0, st.VideoTime)
	require.NotNil(t, st.Next)
	assert.Equal(t, "10:15", st.Next.StartTime)
	assert.False(t, st.Consecutive)

	p.OnClipEnded(ctx)
	st = p.State()
	assert.Equal(t, "10:05", st.Current.StartTime, "stops at the gap")
	assert.False(t, st.IsPlaying)
}

func TestPlayer_stop_at_gap(t *testing.T) {
	ctx := context.Background()
	p := NewPlayer(nil, nil, nil)
	p.SetClips(ctx, "2025-04-04", dayClips(t, "10:00", "10:15"))

	p.SelectClip(ctx, clipAt(t, "10:00"))
	p.Play()
	p.OnClipEnded(ctx)

	st := p.State()
	assert.Equal(t, "10:00", st.Current.StartTime)
	assert.False(t, st.IsPlaying)
}

func TestPlayer_ended_without_selection(t *testing.T) {
	p := NewPlayer(nil, nil, nil)
	p.Play()
	p.OnClipEnded(context.Background())
	st := p.State()
	assert.True(t, st.Idle())
	assert.False(t, st.IsPlaying)
}

func TestPlayer_date_change_resets(t *testing.T) {
	ctx := context.Background()
	res := &fakeResolver{}
	p := NewPlayer(nil, res, nil)
	p.SetClips(ctx, "2025-04-04", dayClips(t, "10:00", "10:05"))
	p.SelectClip(ctx, clipAt(t, "10:00"))
	p.Play()
	p.OnTimeUpdate(42)
	_, ok := p.ResolveCurrent(ctx)
	require.True(t, ok)

	p.OnDateChange("2025-04-05")

	st := p.State()
	assert.Nil(t, st.Current)
	assert.Nil(t, st.Next)
	assert.False(t, st.IsPlaying)
	assert.Equal(t, 0.0, st.VideoTime)
	assert.Empty(t, st.CurrentURL)
	assert.Equal(t, "2025-04-05", st.Date)
	assert.Zero(t, st.ClipCount)
}

func TestPlayer_set_clips_for_other_date_resets(t *testing.T) {
	ctx := context.Background()
	p := NewPlayer(nil, nil, nil)
	p.SetClips(ctx, "2025-04-04", dayClips(t, "10:00", "10:05"))
	p.SelectClip(ctx, clipAt(t, "10:00"))

	p.SetClips(ctx, "2025-04-05", nil)
	assert.True(t, p.State().Idle())
}

func TestPlayer_time_updates_last_wins(t *testing.T) {
	p := NewPlayer(nil, nil, nil)
	for _, s := range []float64{1, 2, 2, 1.5} {
		p.OnTimeUpdate(s)
	}
	assert.Equal(t, 1.5, p.State().VideoTime)
}

func TestPlayer_resolve_current(t *testing.T) {
	ctx := context.Background()
	res := &fakeResolver{fail: map[string]bool{"2025-04-04_1005.mp4": true}}
	p := NewPlayer(nil, res, nil)

	_, ok := p.ResolveCurrent(ctx)
	assert.False(t, ok, "idle player resolves nothing")

	p.SelectClip(ctx, clipAt(t, "10:00"))
	url, ok := p.ResolveCurrent(ctx)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.test/2025-04-04_1000.mp4", url)
	assert.Equal(t, url, p.State().CurrentURL)

	p.SelectClip(ctx, clipAt(t, "10:05"))
	_, ok = p.ResolveCurrent(ctx)
	assert.False(t, ok)
	assert.Empty(t, p.State().CurrentURL, "failure leaves no url")
}

func TestPlayer_resolve_current_discards_stale(t *testing.T) {
	ctx := context.Background()
	res := &fakeResolver{block: make(chan struct{})}
	p := NewPlayer(nil, res, nil)
	p.SelectClip(ctx, clipAt(t, "10:00"))

	done := make(chan bool)
	go func() {
		_, ok := p.ResolveCurrent(ctx)
		done <- ok
	}()

	require.Eventually(t, func() bool {
		res.mu.Lock()
		defer res.mu.Unlock()
		return len(res.lookups) == 1
	}, time.Second, 5*time.Millisecond)

	p.SelectClip(ctx, clipAt(t, "11:00"))
	close(res.block)

	assert.False(t, <-done)
	st := p.State()
	assert.Equal(t, "11:00", st.Current.StartTime)
	assert.Empty(t, st.CurrentURL)
}

func TestPlayer_preloads_next(t *testing.T) {
	ctx := context.Background()
	pre := &recordingPreloader{got: make(chan string, 4)}
	p := NewPlayer(nil, &fakeResolver{}, pre)
	p.SetClips(ctx, "2025-04-04", dayClips(t, "10:00", "10:05", "10:10"))

	p.SelectClip(ctx, clipAt(t, "10:00"))
	select {
	case url := <-pre.got:
		assert.Equal(t, "https://cdn.test/2025-04-04_1005.mp4", url)
	case <-time.After(time.Second):
		t.Fatal("next clip was not preloaded")
	}

	p.Play()
	p.OnClipEnded(ctx)
	select {
	case url := <-pre.got:
		assert.Equal(t, "https://cdn.test/2025-04-04_1010.mp4", url)
	case <-time.After(time.Second):
		t.Fatal("clip after auto-advance was not preloaded")
	}
}

func TestPlayer_preload_failure_is_swallowed(t *testing.T) {
	ctx := context.Background()
	pre := &recordingPreloader{got: make(chan string, 1)}
	res := &fakeResolver{fail: map[string]bool{"2025-04-04_1005.mp4": true}}
	p := NewPlayer(nil, res, pre)
	p.SetClips(ctx, "2025-04-04", dayClips(t, "10:00", "10:05"))
	p.SelectClip(ctx, clipAt(t, "10:00"))

	select {
	case url := <-pre.got:
		t.Fatalf("unexpected preload of %s", url)
	case <-time.After(50 * time.Millisecond):
	}

	st := p.State()
	assert.Equal(t, "10:00", st.Current.StartTime)
	assert.Equal(t, "10:05", st.Next.StartTime)
}

func TestPlayer_nearby(t *testing.T) {
	ctx := context.Background()
	p := NewPlayer(nil, nil, nil)
	artifacts := []Artifact{
		{ID: 1, ClipTime: "10:00", VideoTime: "00:30"},
		{ID: 2, ClipTime: "10:00", VideoTime: "02:00"},
	}
	assert.Nil(t, p.Nearby(artifacts))

	p.SelectClip(ctx, clipAt(t, "10:00"))
	p.OnTimeUpdate(25)
	got := p.Nearby(artifacts)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}
