// Package dashboard orchestrates one synchronous recomputation pass per
// interaction: housing dataset to metric engine to matcher/filter, producing
// the tables the presentation layer renders. Selection state is an explicit
// immutable value and computed metro views live in an explicit cache keyed
// by every input that affects them.
package dashboard

import "github.com/urbanmetrics/housing-atlas/internal/metrics"

// ViewMode is the dashboard's navigation level.
type ViewMode string

const (
	ViewMetro ViewMode = "metro"
	ViewZIP   ViewMode = "zip"
)

// State is one immutable snapshot of the user's selection. Transitions go
// through Apply; nothing mutates a State in place.
type State struct {
	ViewMode     ViewMode
	SelectedCity string // normalized city key, empty in metro view
	SelectedZIP  string // 5-digit ZIP, empty until a ZIP is clicked
	Year         int
	Metric       metrics.Metric
}

// NewState returns the initial metro-level state.
func NewState(year int, metric metrics.Metric) State {
	return State{ViewMode: ViewMetro, Year: year, Metric: metric}
}

// Event is a user interaction that may produce a new State.
type Event interface{ isEvent() }

// ClickMetro selects a metro on the national map.
type ClickMetro struct{ CityKey string }

// ClickZIP selects a ZIP within the currently selected metro.
type ClickZIP struct{ ZIP string }

// Back returns to the metro view and clears all selections.
type Back struct{}

// SelectYear changes the displayed year, keeping the selection.
type SelectYear struct{ Year int }

// SelectMetric changes the displayed metric, keeping the selection.
type SelectMetric struct{ Metric metrics.Metric }

func (ClickMetro) isEvent()   {}
func (ClickZIP) isEvent()     {}
func (Back) isEvent()         {}
func (SelectYear) isEvent()   {}
func (SelectMetric) isEvent() {}

// Apply computes the state following an event. It is a pure function: the
// input state is never modified, and unrecognized or out-of-context events
// (a ZIP click in metro view, an empty id) return the input unchanged.
func Apply(s State, e Event) State {
	switch ev := e.(type) {
	case ClickMetro:
		if ev.CityKey == "" {
			return s
		}
		s.ViewMode = ViewZIP
		s.SelectedCity = ev.CityKey
		s.SelectedZIP = ""
	case ClickZIP:
		if ev.ZIP == "" || s.ViewMode != ViewZIP {
			return s
		}
		s.SelectedZIP = ev.ZIP
	case Back:
		s.ViewMode = ViewMetro
		s.SelectedCity = ""
		s.SelectedZIP = ""
	case SelectYear:
		s.Year = ev.Year
	case SelectMetric:
		s.Metric = ev.Metric
	}
	return s
}
