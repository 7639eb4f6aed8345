package footage

import (
	"fmt"
	"strings"

	"sitecam/internal/timecode"
	"sitecam/internal/timeline"
)

// DefaultPlaylistWindow is the default number of clips in a playlist.
const DefaultPlaylistWindow = 12

const clipSeconds = timecode.SlotMinutes * 60

// PlaylistEntry is one clip of a playlist with its resolved URL.
type PlaylistEntry struct {
	Clip timeline.Clip
	URL  string
}

// ConsecutiveRun returns the clips that play back to back starting at the clip
// whose start time is from (the first clip when from is empty). The run stops
// at the first gap and holds at most limit clips. complete is true when the run
// ended at a gap or at the last clip rather than at limit.
// sorted must be ordered by start time.
func ConsecutiveRun(sorted []timeline.Clip, from string, limit int) (run []timeline.Clip, complete bool) {
	if limit <= 0 || len(sorted) == 0 {
		return nil, true
	}

	start := 0
	if from != "" {
		start = -1
		for i, c := range sorted {
			if c.StartTime == from {
				start = i
				break
			}
		}
		if start < 0 {
			return nil, true
		}
	}

	run = make([]timeline.Clip, 0, limit)
	for i := start; i < len(sorted); i++ {
		if i > start && !timeline.AreConsecutive(sorted[i-1], sorted[i]) {
			return run, true
		}
		if len(run) == limit {
			return run, false
		}
		run = append(run, sorted[i])
	}
	return run, true
}

// BuildPlaylist renders entries (ordered by start time) as an HLS playlist.
// The media sequence is the slot index of the first clip so that windows of
// the same day line up. If ended is true the playlist is closed with
// #EXT-X-ENDLIST.
func BuildPlaylist(entries []PlaylistEntry, ended bool) string {
	var b strings.Builder

	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")
	b.WriteString(fmt.Sprintf("#EXT-X-TARGETDURATION:%d\n", clipSeconds))

	if len(entries) == 0 {
		b.WriteString("#EXT-X-MEDIA-SEQUENCE:0\n")
		if ended {
			b.WriteString("#EXT-X-ENDLIST\n")
		}
		return b.String()
	}

	mediaSequence := 0
	if m, err := timecode.ParseKey(entries[0].Clip.StartTime); err == nil {
		mediaSequence = m.Slot()
	}
	b.WriteString(fmt.Sprintf("#EXT-X-MEDIA-SEQUENCE:%d\n", mediaSequence))
	if ended {
		b.WriteString("#EXT-X-PLAYLIST-TYPE:VOD\n")
	}
	b.WriteString("\n")

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("#EXTINF:%d.0,%s\n", clipSeconds, e.Clip.StartTime))
		b.WriteString(e.URL)
		b.WriteString("\n")
	}

	if ended {
		b.WriteString("#EXT-X-ENDLIST\n")
	}

	return b.String()
}
