// Package poly implements the polyphonic synthesis core: a fixed
// pool of oscillator+envelope voices with retrigger, allocation and
// stealing policies, mixed one sample at a time. Everything here is
// single-threaded and allocation-free once the engine is built; it
// is meant to run inside an audio callback.
package poly

import (
	"github.com/ssilas/polysynth-go/internal/osc"
)

const DefaultMaxVoices = 16

// Params is the per-block tone snapshot broadcast to every voice.
// Waveform is the host-facing integer selector (0=sine, 1=sawtooth,
// 2=square, 3=triangle; anything else falls back to sine). Times are
// milliseconds; out-of-range values are clamped, never rejected.
type Params struct {
	Waveform     int
	AttackMs     float64
	DecayMs      float64
	SustainLevel float64
	ReleaseMs    float64
}

func DefaultParams() Params {
	return Params{
		Waveform:     int(osc.Sine),
		AttackMs:     10,
		DecayMs:      100,
		SustainLevel: 0.7,
		ReleaseMs:    300,
	}
}

// EventKind identifies an in-block event.
type EventKind int

const (
	EventNoteOn EventKind = iota
	EventNoteOff
)

// Event is one timed note event within a processing block. Offset is
// the sample index at which the event takes effect: it is visible to
// every sample at or after that index and to no sample before it.
type Event struct {
	Offset   int
	Kind     EventKind
	Note     int
	Velocity float64
}

// Engine owns a fixed-capacity voice pool. All voices are allocated
// at construction; NoteOn, NoteOff and Process never allocate, lock
// or block.
type Engine struct {
	voices     []Voice
	sampleRate float64
	ageCounter uint64
}

// New builds an engine with maxVoices pre-allocated voices.
// Non-positive maxVoices falls back to DefaultMaxVoices.
func New(sampleRate float64, maxVoices int) *Engine {
	if maxVoices <= 0 {
		maxVoices = DefaultMaxVoices
	}
	e := &Engine{
		voices:     make([]Voice, maxVoices),
		sampleRate: sampleRate,
	}
	for i := range e.voices {
		e.voices[i] = newVoice(sampleRate)
	}
	return e
}

// NoteOn allocates a voice for the note, in strict priority order:
// retrigger a voice already sounding this note, else claim the
// lowest-indexed idle voice, else steal. Every claim stamps the
// voice with a fresh age from the pool's counter, so age order is
// total by construction.
func (e *Engine) NoteOn(note int, velocity float64) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.state != VoiceIdle && v.note == note {
			e.claim(v, note, velocity)
			return
		}
	}
	for i := range e.voices {
		v := &e.voices[i]
		if v.state == VoiceIdle {
			e.claim(v, note, velocity)
			return
		}
	}
	e.steal(note, velocity)
}

// NoteOff releases every Active voice holding the note. Voices
// already Releasing are left alone, so redundant note-offs are
// no-ops.
func (e *Engine) NoteOff(note int) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.note == note && v.state == VoiceActive {
			v.NoteOff()
		}
	}
}

// Process zeroes the buffer and mixes all sounding voices into it,
// one output sample at a time. Interleaving voices per sample (not
// voice-per-block) keeps voices started or stolen mid-block time
// aligned with each other.
func (e *Engine) Process(buffer []float64) {
	e.ProcessEvents(buffer, nil)
}

// ProcessEvents renders a block while dispatching events at their
// sample offsets. Events must be ordered by ascending Offset; an
// event at offset k affects the sample at index k and later, never
// earlier. Offsets past the end of the buffer are dropped, negative
// offsets fire at sample 0, and unknown event kinds are ignored.
func (e *Engine) ProcessEvents(buffer []float64, events []Event) {
	for i := range buffer {
		buffer[i] = 0
	}
	next := 0
	for i := range buffer {
		for next < len(events) && events[next].Offset <= i {
			e.dispatch(events[next])
			next++
		}
		for vi := range e.voices {
			v := &e.voices[vi]
			if v.state != VoiceIdle {
				buffer[i] += v.Process()
			}
		}
	}
}

func (e *Engine) dispatch(ev Event) {
	switch ev.Kind {
	case EventNoteOn:
		e.NoteOn(ev.Note, ev.Velocity)
	case EventNoteOff:
		e.NoteOff(ev.Note)
	}
}

// Apply broadcasts a parameter snapshot to every voice. Called once
// per block, before sample processing, so the per-sample hot path
// never polls shared state. Changes take effect on the next
// processed sample with no smoothing.
func (e *Engine) Apply(p Params) {
	e.SetWaveform(osc.FromInt(p.Waveform))
	e.SetAttack(p.AttackMs)
	e.SetDecay(p.DecayMs)
	e.SetSustain(p.SustainLevel)
	e.SetRelease(p.ReleaseMs)
}

func (e *Engine) SetWaveform(w osc.Waveform) {
	for i := range e.voices {
		e.voices[i].SetWaveform(w)
	}
}

func (e *Engine) SetAttack(ms float64) {
	for i := range e.voices {
		e.voices[i].SetAttack(ms)
	}
}

func (e *Engine) SetDecay(ms float64) {
	for i := range e.voices {
		e.voices[i].SetDecay(ms)
	}
}

func (e *Engine) SetSustain(level float64) {
	for i := range e.voices {
		e.voices[i].SetSustain(level)
	}
}

func (e *Engine) SetRelease(ms float64) {
	for i := range e.voices {
		e.voices[i].SetRelease(ms)
	}
}

// ActiveVoiceCount returns the number of voices not idle, counting
// releasing voices still sounding their tails.
func (e *Engine) ActiveVoiceCount() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].state != VoiceIdle {
			n++
		}
	}
	return n
}

// ReleasingVoiceCount returns the number of voices in their release
// phase.
func (e *Engine) ReleasingVoiceCount() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].state == VoiceReleasing {
			n++
		}
	}
	return n
}

// ActiveNotes returns the notes held by Active voices. Intended for
// display and tests, not for the audio path.
func (e *Engine) ActiveNotes() []int {
	var notes []int
	for i := range e.voices {
		if e.voices[i].state == VoiceActive {
			notes = append(notes, e.voices[i].note)
		}
	}
	return notes
}

// VoiceStates returns a snapshot of every voice's state, in pool
// order.
func (e *Engine) VoiceStates() []VoiceState {
	states := make([]VoiceState, len(e.voices))
	for i := range e.voices {
		states[i] = e.voices[i].state
	}
	return states
}

// MaxVoices returns the pool capacity.
func (e *Engine) MaxVoices() int {
	return len(e.voices)
}

// Reset silences every voice immediately. Used on transport reset;
// not part of the per-block path.
func (e *Engine) Reset() {
	for i := range e.voices {
		e.voices[i].Reset()
	}
}

func (e *Engine) claim(v *Voice, note int, velocity float64) {
	v.NoteOn(note, velocity)
	v.age = e.ageCounter
	e.ageCounter++
}

// steal picks a victim when the pool is full: the oldest Releasing
// voice if any exists, because a voice already fading is cheaper to
// cut than one newly attacked or held; otherwise the oldest voice
// outright. Oldest means lowest age stamp, not wall-clock time.
func (e *Engine) steal(note int, velocity float64) {
	victim := -1
	for i := range e.voices {
		v := &e.voices[i]
		if v.state != VoiceReleasing {
			continue
		}
		if victim < 0 || v.age < e.voices[victim].age {
			victim = i
		}
	}
	if victim < 0 {
		victim = 0
		for i := range e.voices {
			if e.voices[i].age < e.voices[victim].age {
				victim = i
			}
		}
	}
	e.claim(&e.voices[victim], note, velocity)
}
