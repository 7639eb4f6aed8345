package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownKey buckets clip times that carry no usable text at all.
const UnknownKey = "unknown"

// Rule records which normalization step produced a key.
type Rule int

const (
	// RuleVerbatim: the input already was a canonical HH:MM key.
	RuleVerbatim Rule = iota
	// RuleReconstructed: digits only ("1455", "955"), possibly wrapped in a
	// date prefix or file extension.
	RuleReconstructed
	// RulePadded: separated fields that needed zero padding ("9:5", "14.55").
	RulePadded
)

func (r Rule) String() string {
	switch r {
	case RuleVerbatim:
		return "verbatim"
	case RuleReconstructed:
		return "reconstructed"
	case RulePadded:
		return "padded"
	default:
		return "rule(" + strconv.Itoa(int(r)) + ")"
	}
}

// Reason explains why a clip time could not be normalized.
type Reason int

const (
	ReasonEmpty Reason = iota + 1
	ReasonMalformed
	ReasonOutOfRange
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonMalformed:
		return "malformed"
	case ReasonOutOfRange:
		return "out of range"
	default:
		return "reason(" + strconv.Itoa(int(r)) + ")"
	}
}

// UnmatchedError is the failure variant of NormalizeClipTime.
type UnmatchedError struct {
	Raw    string
	Reason Reason
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("timecode: clip time %q: %s", e.Raw, e.Reason)
}

// Normalized is the success variant of NormalizeClipTime.
type Normalized struct {
	Minute Minute
	Rule   Rule
}

// NormalizeClipTime maps a clip time written by any producer onto a minute of
// the day. Rules are tried in a fixed order: verbatim, reconstructed, padded.
func NormalizeClipTime(raw string) (Normalized, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Normalized{}, &UnmatchedError{Raw: raw, Reason: ReasonEmpty}
	}

	if len(s) == 5 && s[2] == ':' && isDigits(s[:2]) && isDigits(s[3:]) {
		m, err := ParseKey(s)
		if err != nil {
			return Normalized{}, &UnmatchedError{Raw: raw, Reason: ReasonOutOfRange}
		}
		return Normalized{Minute: m, Rule: RuleVerbatim}, nil
	}

	s = stripDecorations(s)
	if isDigits(s) {
		m, reason := reconstruct(s)
		if reason != 0 {
			return Normalized{}, &UnmatchedError{Raw: raw, Reason: reason}
		}
		return Normalized{Minute: m, Rule: RuleReconstructed}, nil
	}

	m, reason := pad(s)
	if reason != 0 {
		return Normalized{}, &UnmatchedError{Raw: raw, Reason: reason}
	}
	return Normalized{Minute: m, Rule: RulePadded}, nil
}

// BestGuessKey is the key an artifact is filed under when nothing else fits.
func BestGuessKey(raw string) string {
	if n, err := NormalizeClipTime(raw); err == nil {
		return n.Minute.Key()
	}
	if s := strings.TrimSpace(raw); s != "" {
		return s
	}
	return UnknownKey
}

// stripDecorations drops a leading YYYY-MM-DD date, a trailing file
// extension and a trailing UTC marker.
func stripDecorations(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 && hasLetter(s[i+1:]) {
		s = s[:i]
	}
	if len(s) > 11 && isDate(s[:10]) && strings.ContainsRune(" T_", rune(s[10])) {
		s = s[11:]
	}
	return strings.TrimSuffix(s, "Z")
}

func reconstruct(digits string) (Minute, Reason) {
	var hs, ms string
	switch len(digits) {
	case 3:
		hs, ms = digits[:1], digits[1:]
	case 4:
		hs, ms = digits[:2], digits[2:4]
	case 6:
		// HHMMSS; seconds are irrelevant to the slot.
		hs, ms = digits[:2], digits[2:4]
	default:
		return 0, ReasonMalformed
	}
	h, _ := strconv.Atoi(hs)
	mm, _ := strconv.Atoi(ms)
	m, ok := FromHM(h, mm)
	if !ok {
		return 0, ReasonOutOfRange
	}
	return m, 0
}

func pad(s string) (Minute, Reason) {
	meridiem := ""
	upper := strings.ToUpper(s)
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			s = strings.TrimSpace(s[:len(s)-2])
			break
		}
	}

	fields := strings.Split(strings.ReplaceAll(s, ".", ":"), ":")
	if len(fields) != 2 && len(fields) != 3 {
		return 0, ReasonMalformed
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		if len(f) < 1 || len(f) > 2 || !isDigits(f) {
			return 0, ReasonMalformed
		}
		nums[i], _ = strconv.Atoi(f)
	}
	if len(nums) == 3 && nums[2] > 59 {
		return 0, ReasonOutOfRange
	}

	h := nums[0]
	if meridiem != "" {
		if h < 1 || h > 12 {
			return 0, ReasonOutOfRange
		}
		h %= 12
		if meridiem == "PM" {
			h += 12
		}
	}
	m, ok := FromHM(h, nums[1])
	if !ok {
		return 0, ReasonOutOfRange
	}
	return m, 0
}

func isDate(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-' &&
		isDigits(s[:4]) && isDigits(s[5:7]) && isDigits(s[8:])
}

func hasLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c >= 'a' && c <= 'z' {
			return true
		}
	}
	return false
}
