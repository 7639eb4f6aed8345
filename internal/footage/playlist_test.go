package footage

import (
	"strings"
	"testing"

	"sitecam/internal/timecode"
	"sitecam/internal/timeline"

	"github.com/stretchr/testify/assert"
)

func clip(date, start string) timeline.Clip {
	m, err := timecode.ParseKey(start)
	if err != nil {
		panic(err)
	}
	return timeline.NewClip(date, m)
}

func starts(clips []timeline.Clip) []string {
	out := make([]string, len(clips))
	for i, c := range clips {
		out[i] = c.StartTime
	}
	return out
}

func TestConsecutiveRun(t *testing.T) {
	day := []timeline.Clip{
		clip("2025-04-04", "10:00"),
		clip("2025-04-04", "10:05"),
		clip("2025-04-04", "10:10"),
		clip("2025-04-04", "10:20"),
		clip("2025-04-04", "10:25"),
	}

	tests := []struct {
		desc     string
		from     string
		limit    int
		want     []string
		complete bool
	}{
		{desc: "from first clip stops at gap", from: "", limit: 10, want: []string{"10:00", "10:05", "10:10"}, complete: true},
		{desc: "limit cuts run", from: "10:00", limit: 2, want: []string{"10:00", "10:05"}, complete: false},
		{desc: "run reaching last clip", from: "10:20", limit: 10, want: []string{"10:20", "10:25"}, complete: true},
		{desc: "limit equal to run", from: "10:20", limit: 2, want: []string{"10:20", "10:25"}, complete: true},
		{desc: "unknown start", from: "10:15", limit: 10, want: nil, complete: true},
		{desc: "zero limit", from: "", limit: 0, want: nil, complete: true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			run, complete := ConsecutiveRun(day, tt.from, tt.limit)
			if tt.want == nil {
				assert.Empty(t, run)
			} else {
				assert.Equal(t, tt.want, starts(run))
			}
			assert.Equal(t, tt.complete, complete)
		})
	}
}

func TestConsecutiveRun_empty(t *testing.T) {
	run, complete := ConsecutiveRun(nil, "", 5)
	assert.Empty(t, run)
	assert.True(t, complete)
}

func TestBuildPlaylist_empty(t *testing.T) {
	got := BuildPlaylist(nil, false)
	want := "#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:300\n#EXT-X-MEDIA-SEQUENCE:0\n"
	assert.Equal(t, want, got)

	assert.True(t, strings.HasSuffix(BuildPlaylist(nil, true), "#EXT-X-ENDLIST\n"))
}

func TestBuildPlaylist_ended(t *testing.T) {
	entries := []PlaylistEntry{
		{Clip: clip("2025-04-04", "14:55"), URL: "http://cdn/2025-04-04_1455.mp4"},
		{Clip: clip("2025-04-04", "15:00"), URL: "http://cdn/2025-04-04_1500.mp4"},
	}

	got := BuildPlaylist(entries, true)
	want := "#EXTM3U\n" +
		"#EXT-X-VERSION:3\n" +
		"#EXT-X-TARGETDURATION:300\n" +
		"#EXT-X-MEDIA-SEQUENCE:179\n" +
		"#EXT-X-PLAYLIST-TYPE:VOD\n" +
		"\n" +
		"#EXTINF:300.0,14:55\n" +
		"http://cdn/2025-04-04_1455.mp4\n" +
		"#EXTINF:300.0,15:00\n" +
		"http://cdn/2025-04-04_1500.mp4\n" +
		"#EXT-X-ENDLIST\n"
	assert.Equal(t, want, got)
}

func TestBuildPlaylist_open(t *testing.T) {
	entries := []PlaylistEntry{{Clip: clip("2025-04-04", "00:00"), URL: "u"}}

	got := BuildPlaylist(entries, false)
	assert.Contains(t, got, "#EXT-X-MEDIA-SEQUENCE:0\n")
	assert.NotContains(t, got, "#EXT-X-ENDLIST")
	assert.NotContains(t, got, "#EXT-X-PLAYLIST-TYPE")
}
