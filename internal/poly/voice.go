package poly

import (
	"math"

	"github.com/ssilas/polysynth-go/internal/envelope"
	"github.com/ssilas/polysynth-go/internal/osc"
)

// VoiceState tracks a voice's position in its reuse cycle. It mirrors
// the envelope but is not identical to it: a voice stays Releasing
// until its envelope has fully returned to idle, and only then
// becomes eligible for reallocation.
type VoiceState int

const (
	VoiceIdle VoiceState = iota
	VoiceActive
	VoiceReleasing
)

func (s VoiceState) String() string {
	switch s {
	case VoiceActive:
		return "active"
	case VoiceReleasing:
		return "releasing"
	default:
		return "idle"
	}
}

// Voice binds one oscillator and one envelope to a note. Voices are
// pre-allocated by the engine and reused for the lifetime of the
// pool; a note-on claims one, and it frees itself when its envelope
// finishes.
type Voice struct {
	osc      osc.Oscillator
	env      envelope.ADSR
	note     int
	state    VoiceState
	waveform osc.Waveform
	age      uint64
}

func newVoice(sampleRate float64) Voice {
	return Voice{
		osc: osc.New(sampleRate),
		env: envelope.New(sampleRate),
	}
}

// NoteOn claims the voice for a note: restarts the envelope and
// resets the oscillator phase so retriggers are deterministic.
func (v *Voice) NoteOn(note int, velocity float64) {
	v.note = note
	v.state = VoiceActive
	v.env.NoteOn(velocity)
	v.osc.Reset()
}

// NoteOff starts the voice's release phase.
func (v *Voice) NoteOff() {
	v.state = VoiceReleasing
	v.env.NoteOff()
}

// Process produces one sample: oscillator output at the note's pitch
// multiplied by the envelope. A voice whose envelope has gone idle
// flips itself back to VoiceIdle here; the pool never needs an
// external clock to reclaim it.
func (v *Voice) Process() float64 {
	if !v.env.Active() {
		v.state = VoiceIdle
		return 0
	}
	sample := v.osc.Process(v.waveform, noteToFreq(v.note))
	return sample * v.env.Process()
}

func (v *Voice) State() VoiceState {
	return v.state
}

func (v *Voice) Note() int {
	return v.note
}

func (v *Voice) SetWaveform(w osc.Waveform) {
	v.waveform = w
}

func (v *Voice) SetAttack(ms float64)     { v.env.SetAttack(ms) }
func (v *Voice) SetDecay(ms float64)      { v.env.SetDecay(ms) }
func (v *Voice) SetSustain(level float64) { v.env.SetSustain(level) }
func (v *Voice) SetRelease(ms float64)    { v.env.SetRelease(ms) }

// Reset silences the voice immediately, without a release ramp.
func (v *Voice) Reset() {
	v.state = VoiceIdle
	v.env.Reset()
	v.osc.Reset()
}

// noteToFreq converts a MIDI note number to Hz with standard tuning
// (A4 = note 69 = 440 Hz). The formula is evaluated for any note
// value and stays finite; range enforcement belongs to the caller.
func noteToFreq(note int) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}
