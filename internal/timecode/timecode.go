// Package timecode converts between playback seconds, clock strings and the
// minute-of-day keys that join clips, timeline segments and annotations.
//
// Every function here is total: malformed input degrades to a zero value
// instead of failing.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60
	SlotMinutes   = 5
	SlotsPerDay   = MinutesPerDay / SlotMinutes
)

// ErrInvalidKey is returned by ParseKey for anything that is not H:MM or HH:MM.
var ErrInvalidKey = errors.New("timecode: invalid HH:MM key")

// SecondsToClock formats seconds as MM:SS, or HH:MM:SS from one hour up.
// NaN, infinities and negative values format as "00:00".
func SecondsToClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "00:00"
	}
	total := int(seconds)
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// ClockToSeconds parses MM:SS or HH:MM:SS. Anything else yields 0.
func ClockToSeconds(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		if !isDigits(p) {
			return 0
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// To12Hour turns an HH:MM key into "h:MM AM/PM". Invalid keys read as midnight.
func To12Hour(key string) string {
	m, err := ParseKey(strings.TrimSpace(key))
	if err != nil {
		return Minute(0).Display()
	}
	return m.Display()
}

// Minute is a minute of the day in [0, 1440).
type Minute int

// FromHM builds a Minute, reporting false when h or m is out of range.
func FromHM(h, m int) (Minute, bool) {
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return Minute(h*60 + m), true
}

// ParseKey parses a strict H:MM or HH:MM key.
func ParseKey(s string) (Minute, error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || len(hs) < 1 || len(hs) > 2 || len(ms) != 2 || !isDigits(hs) || !isDigits(ms) {
		return 0, ErrInvalidKey
	}
	h, _ := strconv.Atoi(hs)
	mm, _ := strconv.Atoi(ms)
	m, ok := FromHM(h, mm)
	if !ok {
		return 0, ErrInvalidKey
	}
	return m, nil
}

func (m Minute) Hour() int         { return int(m) / 60 }
func (m Minute) MinuteOfHour() int { return int(m) % 60 }

// Key formats the minute as zero-padded HH:MM.
func (m Minute) Key() string {
	return fmt.Sprintf("%02d:%02d", m.Hour(), m.MinuteOfHour())
}

// Display formats the minute as "h:MM AM/PM".
func (m Minute) Display() string {
	h := m.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m.MinuteOfHour(), suffix)
}

// Add shifts the minute by n, wrapping around midnight.
func (m Minute) Add(n int) Minute {
	v := (int(m) + n) % MinutesPerDay
	if v < 0 {
		v += MinutesPerDay
	}
	return Minute(v)
}

// Aligned reports whether the minute starts a 5-minute slot.
func (m Minute) Aligned() bool { return int(m)%SlotMinutes == 0 }

// Slot is the index of the 5-minute slot holding the minute.
func (m Minute) Slot() int { return int(m) / SlotMinutes }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
