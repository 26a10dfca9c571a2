// Package timeline holds time-stamped chord/lyric events grouped into
// named sections and answers "what is active at time T" queries for the
// synchronized chart display.
package timeline

import (
	"sort"

	"chordsync-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// Event is one tagged chord/lyric moment. Timestamp is in seconds from
// the start of the media source.
type Event struct {
	Chord     string  `json:"chord"`
	Lyric     string  `json:"lyric"`
	Timestamp float64 `json:"timestamp"`
}

// Section is a named run of events (Verse 1, Chorus, ...). StartTime
// may precede the first event's timestamp.
type Section struct {
	Name      string  `json:"name"`
	StartTime float64 `json:"startTime"`
	Events    []Event `json:"events"`
}

// Position addresses one event inside a Timeline.
type Position struct {
	Section int `json:"section"`
	Event   int `json:"event"`
}

// Timeline is an ordered sequence of sections. It owns its sections and
// their events exclusively; New copies its input.
type Timeline struct {
	sections []Section
}

// New builds a Timeline from sections. Chart authors occasionally tag
// events out of order; lookups assume per-section chronological order,
// so ingestion stable-sorts each section's events and logs a
// data-quality warning rather than rejecting the chart.
func New(sections []Section) *Timeline {
	owned := make([]Section, len(sections))
	for i, sec := range sections {
		events := make([]Event, len(sec.Events))
		copy(events, sec.Events)
		if !sort.SliceIsSorted(events, func(a, b int) bool {
			return events[a].Timestamp < events[b].Timestamp
		}) {
			log.Warnf("%s Section %q has out-of-order timestamps, sorting on ingestion", logcolors.LogTimeline, sec.Name)
			sort.SliceStable(events, func(a, b int) bool {
				return events[a].Timestamp < events[b].Timestamp
			})
		}
		owned[i] = Section{Name: sec.Name, StartTime: sec.StartTime, Events: events}
	}
	return &Timeline{sections: owned}
}

// Sections returns the owned sections for rendering.
func (tl *Timeline) Sections() []Section {
	return tl.sections
}

// EventAt resolves a Position to its event.
func (tl *Timeline) EventAt(pos Position) (Event, bool) {
	if pos.Section < 0 || pos.Section >= len(tl.sections) {
		return Event{}, false
	}
	sec := tl.sections[pos.Section]
	if pos.Event < 0 || pos.Event >= len(sec.Events) {
		return Event{}, false
	}
	return sec.Events[pos.Event], true
}

// FindCurrentEvent returns the latest event not after t. Sections and
// events are walked in reverse so that equal timestamps and backward
// seeks still resolve to the current state at t. Inside a section but
// before its first tagged event, the section's first event stands in.
// ok is false when t precedes everything.
func (tl *Timeline) FindCurrentEvent(t float64) (Position, bool) {
	for si := len(tl.sections) - 1; si >= 0; si-- {
		sec := tl.sections[si]
		for ei := len(sec.Events) - 1; ei >= 0; ei-- {
			if sec.Events[ei].Timestamp <= t {
				return Position{Section: si, Event: ei}, true
			}
		}
		if sec.StartTime <= t && len(sec.Events) > 0 {
			return Position{Section: si, Event: 0}, true
		}
	}
	return Position{}, false
}

// FindNextEvent returns the event after pos: the next one in the same
// section, or the first event of the next non-empty section. ok is
// false at the end of the timeline.
func (tl *Timeline) FindNextEvent(pos Position) (Position, bool) {
	if pos.Section < 0 || pos.Section >= len(tl.sections) {
		return Position{}, false
	}
	if pos.Event+1 < len(tl.sections[pos.Section].Events) {
		return Position{Section: pos.Section, Event: pos.Event + 1}, true
	}
	for si := pos.Section + 1; si < len(tl.sections); si++ {
		if len(tl.sections[si].Events) > 0 {
			return Position{Section: si, Event: 0}, true
		}
	}
	return Position{}, false
}
