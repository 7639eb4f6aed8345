package timeline

// SegmentView is a segment as the timeline track renders it.
type SegmentView struct {
	Segment
	Notes       []Artifact `json:"notes"`
	Flags       []Artifact `json:"flags"`
	Bookmarks   []Artifact `json:"bookmarks"`
	Annotations []Artifact `json:"annotations"`
}

// ViewportSummary describes the window a Day was cut with.
type ViewportSummary struct {
	Zoom         float64 `json:"zoom"`
	FocusHour    int     `json:"focusHour"`
	Preset       Preset  `json:"preset"`
	StartHour    float64 `json:"startHour"`
	EndHour      float64 `json:"endHour"`
	SegmentWidth float64 `json:"segmentWidthPercent"`
}

// Day is the reconciled timeline of one date.
type Day struct {
	Date      string                `json:"date"`
	Viewport  ViewportSummary       `json:"viewport"`
	Segments  []SegmentView         `json:"segments"`
	Unmatched map[string][]Artifact `json:"unmatched"`
	Clips     int                   `json:"clipCount"`
	Artifacts int                   `json:"artifactCount"`
	Matched   int                   `json:"matchedCount"`
}

// BuildDay runs the whole reconciliation for date: segments from clips,
// artifacts filed under segments, then the viewport cut. A duplicate-clip
// error is passed through next to a complete Day.
func BuildDay(date string, clips []Clip, artifacts []Artifact, vp *Viewport) (Day, error) {
	if vp == nil {
		vp = NewViewport()
	}
	segments, err := GenerateSegments(date, clips)
	ix := NewIndex(artifacts)
	start, end := vp.VisibleRange()

	day := Day{
		Date: date,
		Viewport: ViewportSummary{
			Zoom:         vp.Zoom(),
			FocusHour:    vp.FocusHour(),
			Preset:       vp.Preset(),
			StartHour:    start,
			EndHour:      end,
			SegmentWidth: vp.SegmentWidthPercent(),
		},
		Unmatched: ix.Unmatched(),
		Clips:     len(clips),
		Artifacts: ix.Len(),
		Matched:   ix.Matched(),
	}

	visible := vp.FilterSegments(segments)
	day.Segments = make([]SegmentView, 0, len(visible))
	for _, s := range visible {
		sa := ix.ForSegment(s.TimeKey)
		day.Segments = append(day.Segments, SegmentView{
			Segment:     s,
			Notes:       sa.Notes(),
			Flags:       sa.Flags(),
			Bookmarks:   sa.Bookmarks(),
			Annotations: sa.Annotations(),
		})
	}
	return day, err
}
