// Package polysynth is a polyphonic subtractive synthesizer: a fixed
// pool of naive-waveform oscillator voices shaped by linear ADSR
// envelopes, driven by note on/off events and a small set of tone
// parameters. The synthesis core lives in internal/poly; this
// package is the host-facing layer that feeds it events, applies
// parameter snapshots, and turns its mono output into a playable
// stereo stream.
package polysynth

import (
	"errors"
	"sync"

	"github.com/viterin/vek"

	"github.com/ssilas/polysynth-go/internal/poly"
)

type SynthOption func(*synthConfig)

type synthConfig struct {
	maxVoices int
	patch     Patch
}

// WithMaxVoices sets the polyphony limit (default 16).
func WithMaxVoices(n int) SynthOption {
	return func(cfg *synthConfig) {
		cfg.maxVoices = n
	}
}

// WithPatch sets the initial tone patch.
func WithPatch(p Patch) SynthOption {
	return func(cfg *synthConfig) {
		cfg.patch = p
	}
}

// Synth wraps the voice pool for live use. Note events may arrive
// from any goroutine (UI, MIDI listener); they are queued under a
// mutex and dispatched at the start of the next rendered block. The
// patch is re-applied as a broadcast before each block, and master
// gain is applied to the mixed output, after the pool, never inside
// it.
type Synth struct {
	mu         sync.Mutex
	engine     *poly.Engine
	sampleRate int
	patch      Patch
	pending    []poly.Event
	scratch    []float64
}

func NewSynth(sampleRate int, opts ...SynthOption) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := synthConfig{
		maxVoices: poly.DefaultMaxVoices,
		patch:     DefaultPatch(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Synth{
		engine:     poly.New(float64(sampleRate), cfg.maxVoices),
		sampleRate: sampleRate,
		patch:      cfg.patch.Clamped(),
	}
	s.engine.Apply(s.patch.engineParams())
	return s, nil
}

// NoteOn queues a note-on for the next block. Velocity is 0..1.
func (s *Synth) NoteOn(note int, velocity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, poly.Event{Kind: poly.EventNoteOn, Note: note, Velocity: velocity})
}

// NoteOff queues a note-off for the next block.
func (s *Synth) NoteOff(note int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, poly.Event{Kind: poly.EventNoteOff, Note: note})
}

// SetPatch replaces the tone patch. It takes effect at the start of
// the next block, immediately and without smoothing.
func (s *Synth) SetPatch(p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patch = p.Clamped()
}

// Patch returns the current tone patch.
func (s *Synth) Patch() Patch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patch
}

func (s *Synth) SampleRate() int {
	return s.sampleRate
}

// ActiveVoices returns the number of voices currently sounding,
// release tails included.
func (s *Synth) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ActiveVoiceCount()
}

// ActiveNotes returns the notes currently held (not yet released).
func (s *Synth) ActiveNotes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ActiveNotes()
}

// Reset silences all voices and drops queued events.
func (s *Synth) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.pending[:0]
	s.engine.Reset()
}

// Process renders one block of interleaved stereo float32 frames
// into dst. It implements the audio stream's sample source: the pool
// mixes mono, master gain scales the mix, and the result is
// duplicated onto both channels.
func (s *Synth) Process(dst []float32) {
	frames := len(dst) / 2
	if frames == 0 {
		// Nothing rendered; queued events stay for the next block.
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cap(s.scratch) < frames {
		s.scratch = make([]float64, frames)
	}
	mono := s.scratch[:frames]
	s.engine.Apply(s.patch.engineParams())
	s.engine.ProcessEvents(mono, s.pending)
	s.pending = s.pending[:0]
	vek.MulNumber_Inplace(mono, s.patch.Gain)
	for i := 0; i < frames; i++ {
		v := float32(mono[i])
		dst[2*i] = v
		dst[2*i+1] = v
	}
}
