package timeline

import (
	"fmt"
	"sort"
	"strings"

	"sitecam/internal/timecode"
)

const (
	WorkdayStartHour = 7
	WorkdayEndHour   = 17
)

// DuplicateClipError lists start times claimed by more than one clip.
// GenerateSegments still returns a full day when it reports one; the last
// clip for a duplicated key wins.
type DuplicateClipError struct {
	Date string
	Keys []string
}

func (e *DuplicateClipError) Error() string {
	return fmt.Sprintf("timeline: %s: duplicate clips at %s", e.Date, strings.Join(e.Keys, ", "))
}

// IsWorkingHour reports whether hour lies in the site's working day,
// both bounds included.
func IsWorkingHour(hour int) bool {
	return hour >= WorkdayStartHour && hour <= WorkdayEndHour
}

// GenerateSegments lays out all 288 segments of date and marks the ones
// covered by clips. Gaps are kept as segments without a clip.
func GenerateSegments(date string, clips []Clip) ([]Segment, error) {
	lookup := make(map[timecode.Minute]Clip, len(clips))
	var dups []string
	for _, c := range clips {
		m, err := timecode.ParseKey(c.StartTime)
		if err != nil || !m.Aligned() {
			continue
		}
		if _, seen := lookup[m]; seen {
			dups = append(dups, m.Key())
		}
		lookup[m] = c
	}

	segments := make([]Segment, 0, timecode.SlotsPerDay)
	for slot := 0; slot < timecode.SlotsPerDay; slot++ {
		m := timecode.Minute(slot * timecode.SlotMinutes)
		seg := Segment{
			TimeKey:       m.Key(),
			Minute:        m,
			DisplayTime:   m.Display(),
			IsWorkingHour: IsWorkingHour(m.Hour()),
		}
		if c, ok := lookup[m]; ok {
			seg.HasClip = true
			seg.Clip = &c
		}
		segments = append(segments, seg)
	}

	if len(dups) > 0 {
		sort.Strings(dups)
		return segments, &DuplicateClipError{Date: date, Keys: compact(dups)}
	}
	return segments, nil
}

func compact(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
