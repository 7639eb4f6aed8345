package timeline

import (
	"math"
	"sort"

	"sitecam/internal/timecode"
)

// NearbyWindow is how far, in seconds, an artifact may sit from the playhead
// and still count as nearby.
const NearbyWindow = 10.0

// SegmentArtifacts holds the artifacts filed under one segment. Items keeps
// each artifact once; the accessors are views over it.
type SegmentArtifacts struct {
	Items []Artifact `json:"items"`
}

// Notes returns note/flag items with content.
func (s SegmentArtifacts) Notes() []Artifact { return s.filter(Artifact.IsNote) }

// Flags returns note/flag items marked as flagged. An item can be both a
// note and a flag.
func (s SegmentArtifacts) Flags() []Artifact { return s.filter(Artifact.IsFlagged) }

func (s SegmentArtifacts) Bookmarks() []Artifact {
	return s.filter(func(a Artifact) bool { return a.Kind == KindBookmark })
}

func (s SegmentArtifacts) Annotations() []Artifact {
	return s.filter(func(a Artifact) bool { return a.Kind == KindAnnotation })
}

func (s SegmentArtifacts) filter(keep func(Artifact) bool) []Artifact {
	out := make([]Artifact, 0)
	for _, a := range s.Items {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// CandidateKeys returns the keys an artifact may be filed under, most
// trusted first: the stored clip time as written, then its normalized form.
func CandidateKeys(a Artifact) []string {
	keys := make([]string, 0, 2)
	if a.ClipTime != "" {
		keys = append(keys, a.ClipTime)
	}
	if n, err := timecode.NormalizeClipTime(a.ClipTime); err == nil {
		if k := n.Minute.Key(); len(keys) == 0 || keys[0] != k {
			keys = append(keys, k)
		}
	}
	return keys
}

// MatchSegment returns the artifacts belonging to the segment timeKey.
func MatchSegment(timeKey string, artifacts []Artifact) SegmentArtifacts {
	var out SegmentArtifacts
	for _, a := range artifacts {
		for _, k := range CandidateKeys(a) {
			if k == timeKey {
				out.Items = append(out.Items, a)
				break
			}
		}
	}
	return out
}

// Index files every artifact of a day under its segment, or under the
// unmatched bucket when no segment fits. Nothing is dropped.
type Index struct {
	bySlot    map[timecode.Minute][]Artifact
	unmatched map[string][]Artifact
	total     int
}

// NewIndex builds an Index over artifacts.
func NewIndex(artifacts []Artifact) *Index {
	ix := &Index{
		bySlot:    make(map[timecode.Minute][]Artifact),
		unmatched: make(map[string][]Artifact),
		total:     len(artifacts),
	}
	for _, a := range artifacts {
		n, err := timecode.NormalizeClipTime(a.ClipTime)
		if err != nil || !n.Minute.Aligned() {
			k := timecode.BestGuessKey(a.ClipTime)
			ix.unmatched[k] = append(ix.unmatched[k], a)
			continue
		}
		ix.bySlot[n.Minute] = append(ix.bySlot[n.Minute], a)
	}
	return ix
}

// ForSegment returns the artifacts filed under the segment key.
func (ix *Index) ForSegment(timeKey string) SegmentArtifacts {
	m, err := timecode.ParseKey(timeKey)
	if err != nil {
		return SegmentArtifacts{}
	}
	return SegmentArtifacts{Items: ix.bySlot[m]}
}

// Unmatched returns artifacts no segment claimed, keyed by best-guess key.
func (ix *Index) Unmatched() map[string][]Artifact { return ix.unmatched }

// UnmatchedKeys returns the unmatched bucket keys in sorted order.
func (ix *Index) UnmatchedKeys() []string {
	keys := make([]string, 0, len(ix.unmatched))
	for k := range ix.unmatched {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Matched is the number of artifacts filed under a segment.
func (ix *Index) Matched() int {
	n := 0
	for _, items := range ix.bySlot {
		n += len(items)
	}
	return n
}

// Len is the number of artifacts the index was built from.
func (ix *Index) Len() int { return ix.total }

// Nearby returns the artifacts taken against the clip starting at clipStart
// whose video time lies within window seconds of at.
func Nearby(artifacts []Artifact, clipStart timecode.Minute, at, window float64) []Artifact {
	var out []Artifact
	for _, a := range artifacts {
		n, err := timecode.NormalizeClipTime(a.ClipTime)
		if err != nil || n.Minute != clipStart || a.VideoTime == "" {
			continue
		}
		if math.Abs(float64(timecode.ClockToSeconds(a.VideoTime))-at) <= window {
			out = append(out, a)
		}
	}
	return out
}
