package dashboard

import "github.com/urbanmetrics/housing-atlas/internal/match"

// ClickEvent is a map selection event as posted by the presentation layer.
// Only the first point of a selection is meaningful.
type ClickEvent struct {
	Points []ClickPoint `json:"points"`
}

// ClickPoint identifies a clicked feature. The canonical form carries the
// entity id in CustomData; older renderers send only the feature location
// or the point's index into the last rendered table.
type ClickPoint struct {
	CustomData []string `json:"customdata,omitempty"`
	Location   string   `json:"location,omitempty"`
	PointIndex *int     `json:"point_index,omitempty"`
}

// DecodeMetroClick resolves a metro-level selection event to a city key.
func DecodeMetroClick(ev *ClickEvent) (string, bool) {
	if ev == nil || len(ev.Points) == 0 {
		return "", false
	}
	p := ev.Points[0]
	if len(p.CustomData) > 0 && p.CustomData[0] != "" {
		return p.CustomData[0], true
	}
	return "", false
}

// DecodeZIPClick resolves a ZIP-level selection event to a ZIP code.
// Location and point-index forms are looked up against the features last
// rendered for the selected metro.
func DecodeZIPClick(ev *ClickEvent, rendered []match.ZIPFeature) (string, bool) {
	if ev == nil || len(ev.Points) == 0 {
		return "", false
	}
	p := ev.Points[0]

	if len(p.CustomData) > 0 && p.CustomData[0] != "" {
		return p.CustomData[0], true
	}
	if p.Location != "" {
		for _, f := range rendered {
			if f.Boundary.Key == p.Location {
				return f.ZIPCode, true
			}
		}
	}
	if p.PointIndex != nil && *p.PointIndex >= 0 && *p.PointIndex < len(rendered) {
		return rendered[*p.PointIndex].ZIPCode, true
	}
	return "", false
}
