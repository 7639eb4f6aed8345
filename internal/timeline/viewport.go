package timeline

import (
	"errors"
	"math"
)

const (
	MinZoom       = 1.0
	MaxZoom       = 4.0
	ZoomStep      = 0.5
	MinRangeHours = 4.0

	// BaseSegmentWidth is the width of one segment, in percent of the track,
	// at zoom 1.
	BaseSegmentWidth = 0.5

	defaultFocusHour = 12
)

var ErrUnknownPreset = errors.New("timeline: unknown preset")

// Preset names a canned zoom/focus combination.
type Preset string

const (
	PresetFullDay      Preset = "full-day"
	PresetWorkingHours Preset = "working-hours"
	PresetMorning      Preset = "morning"
	PresetAfternoon    Preset = "afternoon"
	PresetDetail       Preset = "detail"
	PresetCustom       Preset = "custom"
)

// PresetSpec describes a preset. A nil FocusHour keeps the current focus.
type PresetSpec struct {
	ID        Preset  `json:"id"`
	Label     string  `json:"label"`
	Zoom      float64 `json:"zoom"`
	FocusHour *int    `json:"focusHour"`
}

func hour(h int) *int { return &h }

// Presets is the fixed preset table, in display order.
var Presets = []PresetSpec{
	{ID: PresetFullDay, Label: "Full day", Zoom: 1},
	{ID: PresetWorkingHours, Label: "Working hours", Zoom: 2, FocusHour: hour(12)},
	{ID: PresetMorning, Label: "Morning", Zoom: 3, FocusHour: hour(9)},
	{ID: PresetAfternoon, Label: "Afternoon", Zoom: 3, FocusHour: hour(15)},
	{ID: PresetDetail, Label: "Detail", Zoom: 4},
}

// LookupPreset finds a preset by id.
func LookupPreset(id Preset) (PresetSpec, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return PresetSpec{}, false
}

// Viewport is the zoom and focus of the timeline track.
type Viewport struct {
	zoom      float64
	focusHour int
	preset    Preset
}

// NewViewport returns the full-day view.
func NewViewport() *Viewport {
	return &Viewport{zoom: MinZoom, focusHour: defaultFocusHour, preset: PresetFullDay}
}

func (v *Viewport) Zoom() float64  { return v.zoom }
func (v *Viewport) FocusHour() int { return v.focusHour }
func (v *Viewport) Preset() Preset { return v.preset }

// ZoomIn narrows the window by one step.
func (v *Viewport) ZoomIn() {
	v.zoom = clampZoom(v.zoom + ZoomStep)
	v.preset = v.matchPreset()
}

// ZoomOut widens the window by one step. Getting back to 1.5 or below
// returns to the full-day preset.
func (v *Viewport) ZoomOut() {
	v.zoom = clampZoom(v.zoom - ZoomStep)
	if v.zoom <= 1.5 {
		v.preset = PresetFullDay
		return
	}
	v.preset = v.matchPreset()
}

// SetZoom sets an arbitrary zoom level, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(z float64) {
	v.zoom = clampZoom(z)
	v.preset = v.matchPreset()
}

// SetFocusHour moves the window center, clamped to [0, 23]. It has no
// visible effect at zoom 1.
func (v *Viewport) SetFocusHour(h int) {
	v.focusHour = clampHour(h)
	v.preset = v.matchPreset()
}

// ApplyPreset switches to the preset's zoom and, if it has one, its focus.
func (v *Viewport) ApplyPreset(id Preset) error {
	p, ok := LookupPreset(id)
	if !ok {
		return ErrUnknownPreset
	}
	v.zoom = clampZoom(p.Zoom)
	if p.FocusHour != nil {
		v.focusHour = clampHour(*p.FocusHour)
	}
	v.preset = p.ID
	return nil
}

// matchPreset keeps the active preset while its exact values still hold and
// falls back to custom otherwise.
func (v *Viewport) matchPreset() Preset {
	if p, ok := LookupPreset(v.preset); ok && v.fits(p) {
		return p.ID
	}
	for _, p := range Presets {
		if v.fits(p) {
			return p.ID
		}
	}
	return PresetCustom
}

func (v *Viewport) fits(p PresetSpec) bool {
	if v.zoom != p.Zoom {
		return false
	}
	return p.FocusHour == nil || *p.FocusHour == v.focusHour
}

// VisibleRange is the current window as [start, end) in hours.
func (v *Viewport) VisibleRange() (start, end float64) {
	return VisibleRange(v.zoom, v.focusHour)
}

// FilterSegments keeps the segments inside the current window.
func (v *Viewport) FilterSegments(segments []Segment) []Segment {
	return FilterSegments(segments, v.zoom, v.focusHour)
}

// SegmentWidthPercent is the rendered width of one segment.
func (v *Viewport) SegmentWidthPercent() float64 {
	return SegmentWidthPercent(v.zoom)
}

// VisibleRange returns the [start, end) hour window for zoom and focusHour.
// The window never wraps past midnight.
func VisibleRange(zoom float64, focusHour int) (start, end float64) {
	if zoom <= MinZoom {
		return 0, 24
	}
	size := math.Max(MinRangeHours, 24/zoom)
	start = math.Max(0, float64(focusHour)-size/2)
	end = math.Min(24, float64(focusHour)+size/2)
	return start, end
}

// FilterSegments returns the segments whose hour falls in the visible range.
func FilterSegments(segments []Segment, zoom float64, focusHour int) []Segment {
	if zoom <= MinZoom {
		return segments
	}
	start, end := VisibleRange(zoom, focusHour)
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if h := float64(s.Hour()); h >= start && h < end {
			out = append(out, s)
		}
	}
	return out
}

// SegmentWidthPercent scales the base segment width linearly with zoom.
func SegmentWidthPercent(zoom float64) float64 {
	return BaseSegmentWidth * zoom
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return MinZoom
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}
