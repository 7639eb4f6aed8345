// Package footage is the clip repository of a single site camera: which clips
// exist for a date, where their video lives, and how a consecutive run of them
// is exposed as an HLS playlist.
package footage

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"sitecam/internal/timecode"
	"sitecam/internal/timeline"

	"github.com/brianvoe/gofakeit/v6"
)

// Recording hours of the mock camera. The last clip starts at 17:55.
const (
	RecordingStartHour = 7
	RecordingEndHour   = 18
)

// DefaultMaxGaps bounds the missing slots generated per recorded day.
const DefaultMaxGaps = 6

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrClipNotFound = errors.New("clip not found")
)

// Catalog lists the clips recorded on a date.
type Catalog interface {
	ListClips(ctx context.Context, date string) ([]timeline.Clip, error)
}

// MockCatalog fabricates deterministic footage: every five minutes during
// recording hours, minus a few gap slots picked from a faker seeded by the date.
type MockCatalog struct {
	maxGaps int
	now     func() time.Time
}

// NewMockCatalog returns a catalog with at most maxGaps missing slots per day.
// now is the clock used to cut off future footage; nil means time.Now.
func NewMockCatalog(maxGaps int, now func() time.Time) *MockCatalog {
	if maxGaps < 0 {
		maxGaps = DefaultMaxGaps
	}
	if now == nil {
		now = time.Now
	}
	return &MockCatalog{maxGaps: maxGaps, now: now}
}

// ListClips implements Catalog. Clips come back sorted by start time.
func (c *MockCatalog) ListClips(ctx context.Context, date string) ([]timeline.Clip, error) {
	const op = "footage.MockCatalog.ListClips"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := c.now()
	day, err := time.ParseInLocation(timeline.DateLayout, date, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, date, ErrInvalidDate)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.After(today) {
		return []timeline.Clip{}, nil
	}

	cutoff := timecode.MinutesPerDay
	if day.Equal(today) {
		cutoff = now.Hour()*60 + now.Minute()
	}

	gaps := c.gapSlots(date)
	first := RecordingStartHour * 60
	last := RecordingEndHour * 60

	clips := make([]timeline.Clip, 0, (last-first)/timecode.SlotMinutes)
	for m := first; m < last; m += timecode.SlotMinutes {
		start := timecode.Minute(m)
		if gaps[start.Slot()] {
			continue
		}
		if m+timecode.SlotMinutes > cutoff {
			break
		}
		clips = append(clips, timeline.NewClip(date, start))
	}

	return clips, nil
}

func (c *MockCatalog) gapSlots(date string) map[int]bool {
	faker := gofakeit.New(dateSeed(date))

	firstSlot := RecordingStartHour * 60 / timecode.SlotMinutes
	lastSlot := RecordingEndHour*60/timecode.SlotMinutes - 1

	n := faker.IntRange(0, c.maxGaps)
	gaps := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		gaps[faker.IntRange(firstSlot, lastSlot)] = true
	}
	return gaps
}

func dateSeed(date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(date))
	return int64(h.Sum64() >> 1)
}

// StaticCatalog serves a fixed set of clips per date. It backs tests and the
// CLI when footage is supplied up front.
type StaticCatalog map[string][]timeline.Clip

// ListClips implements Catalog.
func (s StaticCatalog) ListClips(ctx context.Context, date string) ([]timeline.Clip, error) {
	const op = "footage.StaticCatalog.ListClips"

	if _, err := time.Parse(timeline.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, date, ErrInvalidDate)
	}
	clips := append(make([]timeline.Clip, 0, len(s[date])), s[date]...)
	timeline.SortClips(clips)
	return clips, nil
}
