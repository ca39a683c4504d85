package polysynth

import (
	"sort"

	"github.com/ssilas/polysynth-go/internal/poly"
)

// NoteEvent is one timed note boundary in a Sequence. Frame is the
// absolute sample index at which it takes effect.
type NoteEvent struct {
	Frame    int
	On       bool
	Note     int
	Velocity float64
}

// Sequence is an offline score: a list of note events addressed in
// samples. Events may be appended in any order; rendering sorts them.
type Sequence struct {
	Events []NoteEvent
}

// NoteOn appends a note-on at the given frame. Velocity is 0..1.
func (s *Sequence) NoteOn(frame, note int, velocity float64) {
	s.Events = append(s.Events, NoteEvent{Frame: frame, On: true, Note: note, Velocity: velocity})
}

// NoteOff appends a note-off at the given frame.
func (s *Sequence) NoteOff(frame, note int) {
	s.Events = append(s.Events, NoteEvent{Frame: frame, Note: note})
}

// Note appends a held note: on at frame, off at frame+length.
func (s *Sequence) Note(frame, length, note int, velocity float64) {
	s.NoteOn(frame, note, velocity)
	s.NoteOff(frame+length, note)
}

// End returns the frame just past the last event, before any release
// tail.
func (s *Sequence) End() int {
	end := 0
	for _, ev := range s.Events {
		if ev.Frame > end {
			end = ev.Frame
		}
	}
	return end
}

// engineEvents returns the events in pool form, sorted by frame. The
// sort is stable so simultaneous events keep their insertion order.
func (s *Sequence) engineEvents() []poly.Event {
	sorted := make([]NoteEvent, len(s.Events))
	copy(sorted, s.Events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frame < sorted[j].Frame
	})
	out := make([]poly.Event, len(sorted))
	for i, ev := range sorted {
		kind := poly.EventNoteOff
		if ev.On {
			kind = poly.EventNoteOn
		}
		out[i] = poly.Event{Offset: ev.Frame, Kind: kind, Note: ev.Note, Velocity: ev.Velocity}
	}
	return out
}
