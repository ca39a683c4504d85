// Package envelope implements the linear ADSR amplitude envelope
// used by every synth voice. The envelope is a five-state machine
// (Idle, Attack, Decay, Sustain, Release) advanced exactly once per
// audio sample; durations are kept in fractional samples so round
// millisecond settings line up exactly at common sample rates.
package envelope

type State int

const (
	Idle State = iota
	Attack
	Decay
	Sustain
	Release
)

func (s State) String() string {
	switch s {
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	default:
		return "idle"
	}
}

type ADSR struct {
	state          State
	value          float64
	sampleRate     float64
	attackSamples  float64
	decaySamples   float64
	sustainLevel   float64
	releaseSamples float64
	phasePos       float64
	velocity       float64
	releaseFrom    float64
}

// New returns an idle envelope with the instrument defaults: 10ms
// attack, 100ms decay, 70% sustain, 300ms release.
func New(sampleRate float64) ADSR {
	e := ADSR{
		sampleRate:   sampleRate,
		sustainLevel: 0.7,
		velocity:     1,
	}
	e.SetAttack(10)
	e.SetDecay(100)
	e.SetRelease(300)
	return e
}

// SetAttack sets the attack time in milliseconds. Negative values
// clamp to zero (instant attack).
func (e *ADSR) SetAttack(ms float64) {
	e.attackSamples = msToSamples(ms, e.sampleRate)
}

// SetDecay sets the decay time in milliseconds. Negative values
// clamp to zero (instant decay).
func (e *ADSR) SetDecay(ms float64) {
	e.decaySamples = msToSamples(ms, e.sampleRate)
}

// SetSustain sets the sustain level, clamped to [0,1].
func (e *ADSR) SetSustain(level float64) {
	e.sustainLevel = clamp(level, 0, 1)
}

// SetRelease sets the release time in milliseconds. Negative values
// clamp to zero (instant release).
func (e *ADSR) SetRelease(ms float64) {
	e.releaseSamples = msToSamples(ms, e.sampleRate)
}

// NoteOn restarts the envelope from the beginning of the attack
// phase, whatever state it was in. This is retrigger semantics, not
// legato: a note-on mid-envelope drops the output back to zero.
func (e *ADSR) NoteOn(velocity float64) {
	e.velocity = clamp(velocity, 0, 1)
	e.state = Attack
	e.phasePos = 0
	e.value = 0
}

// NoteOff forces the release phase from any state, capturing the
// current output so the release ramps down from wherever the
// envelope actually was (mid-attack and mid-decay included).
func (e *ADSR) NoteOff() {
	e.state = Release
	e.phasePos = 0
	e.releaseFrom = e.value
}

// Process advances the state machine by one sample and returns the
// new amplitude. Zero-duration phases collapse within a single call:
// the loop re-evaluates the next state instead of spending a sample
// on an instant transition.
func (e *ADSR) Process() float64 {
	for {
		switch e.state {
		case Idle:
			e.value = 0
			return 0

		case Attack:
			if e.attackSamples <= 0 {
				e.value = e.velocity
				e.enterDecay()
				continue
			}
			e.value = e.phasePos / e.attackSamples * e.velocity
			e.phasePos++
			if e.phasePos >= e.attackSamples {
				e.value = e.velocity
				e.enterDecay()
			}
			return e.value

		case Decay:
			target := e.sustainLevel * e.velocity
			if e.decaySamples <= 0 {
				e.value = target
				e.enterSustain()
				return e.value
			}
			progress := e.phasePos / e.decaySamples
			e.value = e.velocity + (target-e.velocity)*progress
			e.phasePos++
			if e.phasePos >= e.decaySamples {
				e.value = target
				e.enterSustain()
			}
			return e.value

		case Sustain:
			e.value = e.sustainLevel * e.velocity
			return e.value

		case Release:
			if e.releaseSamples <= 0 {
				e.value = 0
				e.enterIdle()
				return 0
			}
			progress := e.phasePos / e.releaseSamples
			e.value = e.releaseFrom * (1 - progress)
			e.phasePos++
			if e.phasePos >= e.releaseSamples {
				e.value = 0
				e.enterIdle()
			}
			return e.value
		}
	}
}

// Active reports whether the envelope is in any state other than Idle.
func (e *ADSR) Active() bool {
	return e.state != Idle
}

func (e *ADSR) State() State {
	return e.state
}

// Value returns the amplitude produced by the last Process call.
func (e *ADSR) Value() float64 {
	return e.value
}

// Reset returns the envelope to Idle without ramping.
func (e *ADSR) Reset() {
	e.state = Idle
	e.value = 0
	e.phasePos = 0
}

func (e *ADSR) enterDecay() {
	e.state = Decay
	e.phasePos = 0
}

func (e *ADSR) enterSustain() {
	e.state = Sustain
	e.phasePos = 0
}

func (e *ADSR) enterIdle() {
	e.state = Idle
	e.phasePos = 0
	e.value = 0
}

func msToSamples(ms, sampleRate float64) float64 {
	if ms < 0 {
		ms = 0
	}
	return ms / 1000 * sampleRate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
