package osc

import "math"

const twoPi = math.Pi * 2

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Square
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Sawtooth:
		return "sawtooth"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	default:
		return "sine"
	}
}

// FromInt maps a host parameter value to a Waveform. Values outside
// the known range fall back to Sine.
func FromInt(v int) Waveform {
	if v < int(Sine) || v > int(Triangle) {
		return Sine
	}
	return Waveform(v)
}

// Parse maps a waveform name to a Waveform. The second return value
// reports whether the name was recognized.
func Parse(name string) (Waveform, bool) {
	switch name {
	case "sine", "":
		return Sine, true
	case "sawtooth", "saw":
		return Sawtooth, true
	case "square":
		return Square, true
	case "triangle", "tri":
		return Triangle, true
	}
	return Sine, false
}

// Oscillator is a single phase-accumulator waveform generator. The
// phase lives in [0,1) and is renormalized after every advance so it
// cannot drift or grow without bound over long renders.
type Oscillator struct {
	phase      float64
	sampleRate float64
}

func New(sampleRate float64) Oscillator {
	return Oscillator{sampleRate: sampleRate}
}

// Reset zeroes the phase so retriggered notes start phase-aligned.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Phase returns the current phase accumulator value in [0,1).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Process generates one sample of the selected waveform at the given
// frequency, then advances the phase. Any finite frequency is
// accepted; zero, negative and above-Nyquist inputs all produce
// finite output (aliasing above Nyquist is expected, not an error).
func (o *Oscillator) Process(w Waveform, frequency float64) float64 {
	switch w {
	case Sawtooth:
		return o.ProcessSawtooth(frequency)
	case Square:
		return o.ProcessSquare(frequency)
	case Triangle:
		return o.ProcessTriangle(frequency)
	default:
		return o.ProcessSine(frequency)
	}
}

// ProcessSine returns sin(2*pi*phase).
func (o *Oscillator) ProcessSine(frequency float64) float64 {
	out := math.Sin(o.phase * twoPi)
	o.advance(frequency)
	return out
}

// ProcessSawtooth returns a linear ramp from -1 to +1 with one
// discontinuity per cycle at the wrap.
func (o *Oscillator) ProcessSawtooth(frequency float64) float64 {
	out := 2*o.phase - 1
	o.advance(frequency)
	return out
}

// ProcessSquare returns -1 for the first half of the cycle and +1
// for the second half.
func (o *Oscillator) ProcessSquare(frequency float64) float64 {
	out := 1.0
	if o.phase < 0.5 {
		out = -1.0
	}
	o.advance(frequency)
	return out
}

// ProcessTriangle rises -1 to +1 over the first half cycle and falls
// back to -1 over the second.
func (o *Oscillator) ProcessTriangle(frequency float64) float64 {
	var out float64
	if o.phase < 0.5 {
		out = -1 + 4*o.phase
	} else {
		out = 3 - 4*o.phase
	}
	o.advance(frequency)
	return out
}

// advance moves the phase by frequency/sampleRate and renormalizes
// into [0,1). The loops handle increments larger than a whole cycle
// and negative-frequency (reverse) motion.
func (o *Oscillator) advance(frequency float64) {
	o.phase += frequency / o.sampleRate
	for o.phase >= 1 {
		o.phase--
	}
	for o.phase < 0 {
		o.phase++
	}
}
