// Package timeline reconciles a day of camera footage with the notes, flags
// and bookmarks taken against it: it lays out the 288 five-minute segments of
// a day, files artifacts under their segment, scales the visible window and
// drives clip-to-clip playback.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"sitecam/internal/timecode"
)

// DateLayout is the wire format of every date handled by the timeline.
const DateLayout = "2006-01-02"

// Clip is one five-minute video asset.
type Clip struct {
	Key       string `json:"key"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	URL       string `json:"url,omitempty"`
}

// NewClip builds the clip recorded on date starting at start.
func NewClip(date string, start timecode.Minute) Clip {
	return Clip{
		Key:       ClipKey(date, start),
		Date:      date,
		StartTime: start.Key(),
		EndTime:   start.Add(timecode.SlotMinutes).Key(),
	}
}

// ClipKey is the storage key of a clip: DATE_HHMM.mp4.
func ClipKey(date string, start timecode.Minute) string {
	return fmt.Sprintf("%s_%02d%02d.mp4", date, start.Hour(), start.MinuteOfHour())
}

// ParseClipKey splits a storage key back into its date and start minute.
func ParseClipKey(key string) (date string, start timecode.Minute, ok bool) {
	name, found := strings.CutSuffix(key, ".mp4")
	if !found {
		return "", 0, false
	}
	date, hhmm, found := strings.Cut(name, "_")
	if !found || len(hhmm) != 4 {
		return "", 0, false
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", 0, false
	}
	start, err := timecode.ParseKey(hhmm[:2] + ":" + hhmm[2:])
	if err != nil {
		return "", 0, false
	}
	return date, start, true
}

// EndTime returns the key five minutes after start, wrapping at midnight.
// Unparseable input is treated as midnight.
func EndTime(start string) string {
	m, err := timecode.ParseKey(start)
	if err != nil {
		m = 0
	}
	return m.Add(timecode.SlotMinutes).Key()
}

// AreConsecutive reports whether next starts exactly where prev ends.
func AreConsecutive(prev, next Clip) bool {
	return next.StartTime == EndTime(prev.StartTime)
}

// SortClips orders clips by start time. Zero-padded HH:MM keys sort
// correctly as strings.
func SortClips(clips []Clip) {
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].StartTime < clips[j].StartTime
	})
}

// Kind tells the three artifact stores apart.
type Kind string

const (
	KindAnnotation Kind = "annotation"
	KindNoteFlag   Kind = "noteflag"
	KindBookmark   Kind = "bookmark"
)

// Kinds lists every artifact kind.
var Kinds = []Kind{KindAnnotation, KindNoteFlag, KindBookmark}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindAnnotation, KindNoteFlag, KindBookmark:
		return true
	}
	return false
}

// Artifact is a user-authored annotation, note/flag or bookmark, taken
// against the clip starting at ClipTime.
type Artifact struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	Date      string    `json:"date"`
	ClipTime  string    `json:"clipTime"`
	VideoTime string    `json:"videoTime,omitempty"`
	Content   string    `json:"content,omitempty"`
	IsFlag    bool      `json:"isFlag"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsNote reports whether the artifact shows up in the notes view.
func (a Artifact) IsNote() bool {
	return a.Kind == KindNoteFlag && strings.TrimSpace(a.Content) != ""
}

// IsFlagged reports whether the artifact shows up in the flags view.
func (a Artifact) IsFlagged() bool {
	return a.Kind == KindNoteFlag && a.IsFlag
}

// Segment is one five-minute slot of a day.
type Segment struct {
	TimeKey       string          `json:"timeKey"`
	Minute        timecode.Minute `json:"-"`
	DisplayTime   string          `json:"displayTime"`
	HasClip       bool            `json:"hasClip"`
	IsWorkingHour bool            `json:"isWorkingHour"`
	Clip          *Clip           `json:"clip,omitempty"`
}

// Hour is the hour of day the segment belongs to.
func (s Segment) Hour() int { return s.Minute.Hour() }
