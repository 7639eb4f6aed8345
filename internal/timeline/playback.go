package timeline

import (
	"context"
	"log/slog"
	"sync"

	"sitecam/internal/timecode"
)

// URLResolver turns a clip key into a playable URL.
type URLResolver interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

// Preloader warms a secondary buffer for the clip that plays next. It is
// fire-and-forget: the player ignores what happens inside.
type Preloader interface {
	Preload(ctx context.Context, clip Clip, url string)
}

// PlaybackState is a snapshot of the player.
type PlaybackState struct {
	Date        string  `json:"date"`
	Current     *Clip   `json:"currentClip"`
	Next        *Clip   `json:"nextClip"`
	CurrentURL  string  `json:"currentUrl,omitempty"`
	IsPlaying   bool    `json:"isPlaying"`
	VideoTime   float64 `json:"currentVideoTime"`
	ClipCount   int     `json:"clipCount"`
	Consecutive bool    `json:"nextIsConsecutive"`
}

// Idle reports whether no clip is selected.
func (s PlaybackState) Idle() bool { return s.Current == nil }

// Player tracks the selected clip of a day, the clip after it and the
// playhead, and decides what happens when a clip ends.
type Player struct {
	log       *slog.Logger
	resolver  URLResolver
	preloader Preloader

	mu         sync.Mutex
	date       string
	clips      []Clip
	current    *Clip
	next       *Clip
	currentURL string
	playing    bool
	videoTime  float64

	cancelPreload context.CancelFunc
}

// NewPlayer returns an idle player. resolver and preloader may be nil, in
// which case URLs are never resolved and nothing is preloaded.
func NewPlayer(log *slog.Logger, resolver URLResolver, preloader Preloader) *Player {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Player{log: log, resolver: resolver, preloader: preloader}
}

// SetClips replaces the day's clip list. The selection is kept; the next
// clip is recomputed against the new list.
func (p *Player) SetClips(ctx context.Context, date string, clips []Clip) {
	sorted := make([]Clip, len(clips))
	copy(sorted, clips)
	SortClips(sorted)

	p.mu.Lock()
	defer p.mu.Unlock()

	if date != p.date {
		p.resetLocked()
		p.date = date
	}
	p.clips = sorted
	p.updateNextLocked(ctx)
}

// SelectClip makes clip current and rewinds the playhead. Callers that want
// auto-play follow up with Play.
func (p *Player) SelectClip(ctx context.Context, clip Clip) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := clip
	p.current = &c
	p.currentURL = clip.URL
	p.videoTime = 0
	p.updateNextLocked(ctx)

	p.log.Debug("clip selected", slog.String("key", clip.Key), slog.String("start", clip.StartTime))
}

// Play starts playback if a clip is selected.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = p.current != nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

// OnTimeUpdate records the playhead. Updates apply in call order; the last
// one wins.
func (p *Player) OnTimeUpdate(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoTime = seconds
}

// OnClipEnded advances to the next clip when it directly follows the current
// one and keeps playing. At a gap playback stops on the current clip.
func (p *Player) OnClipEnded(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		p.playing = false
		return
	}
	if p.next == nil || !AreConsecutive(*p.current, *p.next) {
		p.log.Debug("playback stopped at gap", slog.String("key", p.current.Key))
		p.playing = false
		return
	}

	p.log.Debug("auto-advance", slog.String("from", p.current.Key), slog.String("to", p.next.Key))
	p.current = p.next
	p.currentURL = p.current.URL
	p.videoTime = 0
	p.playing = true
	p.updateNextLocked(ctx)
}

// OnDateChange drops everything and returns to idle, whatever the state.
func (p *Player) OnDateChange(date string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	p.date = date
	p.clips = nil
}

// ResolveCurrent resolves the URL of the current clip. The result is only
// applied if that clip is still current once resolution returns; a failure
// leaves the URL empty.
func (p *Player) ResolveCurrent(ctx context.Context) (string, bool) {
	p.mu.Lock()
	if p.current == nil || p.resolver == nil {
		p.mu.Unlock()
		return "", false
	}
	key := p.current.Key
	p.mu.Unlock()

	url, err := p.resolver.ResolveURL(ctx, key)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.Key != key {
		p.log.Debug("discarding stale url resolution", slog.String("key", key))
		return "", false
	}
	if err != nil {
		p.log.Warn("url resolution failed", slog.String("key", key), slog.String("error", err.Error()))
		p.currentURL = ""
		return "", false
	}
	p.currentURL = url
	p.current.URL = url
	return url, true
}

// State returns a snapshot of the player.
func (p *Player) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := PlaybackState{
		Date:       p.date,
		CurrentURL: p.currentURL,
		IsPlaying:  p.playing,
		VideoTime:  p.videoTime,
		ClipCount:  len(p.clips),
	}
	if p.current != nil {
		c := *p.current
		s.Current = &c
	}
	if p.next != nil {
		n := *p.next
		s.Next = &n
		s.Consecutive = p.current != nil && AreConsecutive(*p.current, n)
	}
	return s
}

// Nearby returns the artifacts of the current clip close to the playhead.
func (p *Player) Nearby(artifacts []Artifact) []Artifact {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	start, err := timecode.ParseKey(p.current.StartTime)
	if err != nil {
		return nil
	}
	return Nearby(artifacts, start, p.videoTime, NearbyWindow)
}

// NextAfter returns the first clip of sorted that starts after start.
func NextAfter(sorted []Clip, start string) *Clip {
	for i := range sorted {
		if sorted[i].StartTime > start {
			c := sorted[i]
			return &c
		}
	}
	return nil
}

func (p *Player) resetLocked() {
	p.stopPreloadLocked()
	p.current = nil
	p.next = nil
	p.currentURL = ""
	p.playing = false
	p.videoTime = 0
}

func (p *Player) updateNextLocked(ctx context.Context) {
	var next *Clip
	if p.current != nil {
		next = NextAfter(p.clips, p.current.StartTime)
	}
	changed := (next == nil) != (p.next == nil) || (next != nil && next.Key != p.next.Key)
	p.next = next
	if changed {
		p.stopPreloadLocked()
		if next != nil {
			p.startPreloadLocked(ctx, *next)
		}
	}
}

func (p *Player) stopPreloadLocked() {
	if p.cancelPreload != nil {
		p.cancelPreload()
		p.cancelPreload = nil
	}
}

func (p *Player) startPreloadLocked(ctx context.Context, clip Clip) {
	if p.preloader == nil || p.resolver == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancelPreload = cancel

	go func() {
		defer cancel()
		url, err := p.resolver.ResolveURL(ctx, clip.Key)
		if err != nil {
			p.log.Debug("preload skipped", slog.String("key", clip.Key), slog.String("error", err.Error()))
			return
		}
		if ctx.Err() != nil {
			return
		}
		p.preloader.Preload(ctx, clip, url)
	}()
}
