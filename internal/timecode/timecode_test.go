package timecode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsToClock(t *testing.T) {
	testCases := []struct {
		desc    string
		seconds float64
		expect  string
	}{
		{desc: "zero", seconds: 0, expect: "00:00"},
		{desc: "under a minute", seconds: 7, expect: "00:07"},
		{desc: "fraction truncated", seconds: 65.9, expect: "01:05"},
		{desc: "just under an hour", seconds: 3599, expect: "59:59"},
		{desc: "one hour", seconds: 3600, expect: "01:00:00"},
		{desc: "end of day", seconds: 86399, expect: "23:59:59"},
		{desc: "nan", seconds: math.NaN(), expect: "00:00"},
		{desc: "infinity", seconds: math.Inf(1), expect: "00:00"},
		{desc: "negative", seconds: -12, expect: "00:00"},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expect, SecondsToClock(tC.seconds))
		})
	}
}

func TestClockToSeconds(t *testing.T) {
	testCases := []struct {
		desc   string
		in     string
		expect int
	}{
		{desc: "mm:ss", in: "01:05", expect: 65},
		{desc: "hh:mm:ss", in: "01:00:01", expect: 3601},
		{desc: "unpadded", in: "1:5", expect: 65},
		{desc: "surrounding space", in: " 02:00 ", expect: 120},
		{desc: "single field", in: "65", expect: 0},
		{desc: "four fields", in: "1:2:3:4", expect: 0},
		{desc: "letters", in: "ab:cd", expect: 0},
		{desc: "negative field", in: "-1:30", expect: 0},
		{desc: "empty", in: "", expect: 0},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expect, ClockToSeconds(tC.in))
		})
	}
}

func TestClockRoundTrip(t *testing.T) {
	for s := 0; s < 86400; s++ {
		if got := ClockToSeconds(SecondsToClock(float64(s))); got != s {
			t.Fatalf("round trip %d: got %d (%s)", s, got, SecondsToClock(float64(s)))
		}
	}
}

func TestTo12Hour(t *testing.T) {
	testCases := []struct {
		in, expect string
	}{
		{"00:00", "12:00 AM"},
		{"00:05", "12:05 AM"},
		{"07:30", "7:30 AM"},
		{"11:55", "11:55 AM"},
		{"12:00", "12:00 PM"},
		{"13:05", "1:05 PM"},
		{"23:55", "11:55 PM"},
		{"garbage", "12:00 AM"},
		{"24:00", "12:00 AM"},
	}

	for _, tC := range testCases {
		t.Run(tC.in, func(t *testing.T) {
			assert.Equal(t, tC.expect, To12Hour(tC.in))
		})
	}
}

func TestMinute(t *testing.T) {
	m, err := ParseKey("23:55")
	require.NoError(t, err)

	assert.Equal(t, 23, m.Hour())
	assert.Equal(t, 55, m.MinuteOfHour())
	assert.Equal(t, "00:00", m.Add(SlotMinutes).Key())
	assert.Equal(t, "23:50", Minute(0).Add(-10).Key())
	assert.True(t, m.Aligned())
	assert.Equal(t, SlotsPerDay-1, m.Slot())

	_, err = ParseKey("7:5")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = ParseKey("24:00")
	assert.ErrorIs(t, err, ErrInvalidKey)

	m, err = ParseKey("7:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", m.Key())
}

func TestNormalizeClipTime(t *testing.T) {
	testCases := []struct {
		desc   string
		raw    string
		key    string
		rule   Rule
		reason Reason
	}{
		{desc: "canonical", raw: "14:55", key: "14:55", rule: RuleVerbatim},
		{desc: "no colon", raw: "1455", key: "14:55", rule: RuleReconstructed},
		{desc: "no colon short hour", raw: "955", key: "09:55", rule: RuleReconstructed},
		{desc: "clip file name", raw: "2025-04-04_1455.mp4", key: "14:55", rule: RuleReconstructed},
		{desc: "with seconds digits", raw: "145500", key: "14:55", rule: RuleReconstructed},
		{desc: "unpadded hour", raw: "9:05", key: "09:05", rule: RulePadded},
		{desc: "unpadded both", raw: "9:5", key: "09:05", rule: RulePadded},
		{desc: "dot separator", raw: "14.55", key: "14:55", rule: RulePadded},
		{desc: "iso timestamp", raw: "2025-04-04T14:55:00Z", key: "14:55", rule: RulePadded},
		{desc: "meridiem", raw: "2:55 PM", key: "14:55", rule: RulePadded},
		{desc: "midnight meridiem", raw: "12:05 am", key: "00:05", rule: RulePadded},
		{desc: "empty", raw: "  ", reason: ReasonEmpty},
		{desc: "words", raw: "lunch", reason: ReasonMalformed},
		{desc: "too many digits", raw: "14555", reason: ReasonMalformed},
		{desc: "hour out of range", raw: "25:00", reason: ReasonOutOfRange},
		{desc: "digits out of range", raw: "1475", reason: ReasonOutOfRange},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			n, err := NormalizeClipTime(tC.raw)
			if tC.reason != 0 {
				var unmatched *UnmatchedError
				require.ErrorAs(t, err, &unmatched)
				assert.Equal(t, tC.reason, unmatched.Reason)
				assert.Equal(t, tC.raw, unmatched.Raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tC.key, n.Minute.Key())
			assert.Equal(t, tC.rule, n.Rule)
		})
	}
}

func TestBestGuessKey(t *testing.T) {
	assert.Equal(t, "14:55", BestGuessKey("1455"))
	assert.Equal(t, "lunch break", BestGuessKey(" lunch break "))
	assert.Equal(t, UnknownKey, BestGuessKey(""))
}
