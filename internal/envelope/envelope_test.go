package envelope

import (
	"math"
	"testing"
)

const rate = 44100

func TestAttackRampIsLinear(t *testing.T) {
	e := New(rate)
	e.SetAttack(10)
	e.NoteOn(1)

	first := e.Process()
	if first != 0 {
		t.Fatalf("first attack sample = %f, want 0", first)
	}
	attackSamples := 10 * rate / 1000
	prev := first
	for i := 1; i < attackSamples; i++ {
		cur := e.Process()
		if cur <= prev {
			t.Fatalf("attack not strictly rising at sample %d: %f then %f", i, prev, cur)
		}
		prev = cur
	}
	if got := e.Process(); got != 1 {
		t.Fatalf("attack peak = %f, want 1", got)
	}
	if e.State() != Decay {
		t.Fatalf("state after attack = %v, want decay", e.State())
	}
}

func TestDecayReachesSustain(t *testing.T) {
	e := New(rate)
	e.SetAttack(0)
	e.SetDecay(5)
	e.SetSustain(0.4)
	e.NoteOn(1)

	decaySamples := 5 * rate / 1000
	for i := 0; i < decaySamples+1; i++ {
		e.Process()
	}
	if e.State() != Sustain {
		t.Fatalf("state = %v, want sustain", e.State())
	}
	if got := e.Process(); math.Abs(got-0.4) > 1e-12 {
		t.Fatalf("sustain output = %f, want 0.4", got)
	}
}

func TestSustainHoldsIndefinitely(t *testing.T) {
	e := New(rate)
	e.SetAttack(0)
	e.SetDecay(0)
	e.SetSustain(0.6)
	e.NoteOn(1)
	for i := 0; i < 100000; i++ {
		if got := e.Process(); got != 0.6 {
			t.Fatalf("sustain drifted to %f at sample %d", got, i)
		}
	}
}

func TestZeroDurationsCollapseInOneCall(t *testing.T) {
	e := New(rate)
	e.SetAttack(0)
	e.SetDecay(0)
	e.SetSustain(0.5)
	e.NoteOn(1)
	if got := e.Process(); got != 0.5 {
		t.Fatalf("first sample = %f, want sustain level 0.5", got)
	}
	if e.State() != Sustain {
		t.Fatalf("state = %v, want sustain", e.State())
	}
}

func TestInstantReleaseFirstSampleIsZero(t *testing.T) {
	e := New(rate)
	e.SetAttack(0)
	e.SetDecay(0)
	e.SetRelease(0)
	e.NoteOn(1)
	e.Process()
	e.NoteOff()
	if got := e.Process(); got != 0 {
		t.Fatalf("instant release output = %f, want 0", got)
	}
	if e.Active() {
		t.Fatalf("envelope still active after instant release")
	}
}

func TestReleaseFromMidAttack(t *testing.T) {
	e := New(rate)
	e.SetAttack(100)
	e.SetRelease(10)
	e.NoteOn(1)
	for i := 0; i < 1000; i++ {
		e.Process()
	}
	from := e.Value()
	if from <= 0 || from >= 1 {
		t.Fatalf("mid-attack value = %f, expected partial ramp", from)
	}
	e.NoteOff()
	prev := math.Inf(1)
	releaseSamples := 10 * rate / 1000
	for i := 0; i <= releaseSamples; i++ {
		cur := e.Process()
		if cur > from {
			t.Fatalf("release overshot start value: %f > %f", cur, from)
		}
		if cur > prev {
			t.Fatalf("release not monotone at sample %d: %f then %f", i, prev, cur)
		}
		prev = cur
	}
	if e.Active() {
		t.Fatalf("envelope still active after full release")
	}
}

func TestRetriggerRestartsFromZero(t *testing.T) {
	e := New(rate)
	e.SetAttack(50)
	e.SetDecay(0)
	e.SetSustain(0.8)
	e.NoteOn(1)
	for i := 0; i < 2000; i++ {
		e.Process()
	}
	before := e.Value()
	e.NoteOn(1)
	if got := e.Process(); got >= before {
		t.Fatalf("retrigger first sample %f not below prior value %f", got, before)
	}
	if e.State() != Attack {
		t.Fatalf("state after retrigger = %v, want attack", e.State())
	}
}

func TestVelocityScalesPeakAndSustain(t *testing.T) {
	e := New(rate)
	e.SetAttack(0)
	e.SetDecay(0)
	e.SetSustain(0.5)
	e.NoteOn(0.5)
	if got := e.Process(); got != 0.25 {
		t.Fatalf("sustain at half velocity = %f, want 0.25", got)
	}
}

func TestVelocityClamped(t *testing.T) {
	e := New(rate)
	e.SetAttack(0)
	e.SetDecay(0)
	e.SetSustain(1)
	e.NoteOn(3)
	if got := e.Process(); got != 1 {
		t.Fatalf("overdriven velocity output = %f, want 1", got)
	}
	e.NoteOn(-1)
	if got := e.Process(); got != 0 {
		t.Fatalf("negative velocity output = %f, want 0", got)
	}
}

func TestNoteOffFromIdleStaysSilent(t *testing.T) {
	// A note-off always enters Release, even from Idle; with nothing
	// captured it ramps zero down to zero and then goes idle.
	e := New(rate)
	e.NoteOff()
	if e.State() != Release {
		t.Fatalf("state after note-off from idle = %v, want release", e.State())
	}
	releaseSamples := 300 * rate / 1000
	for i := 0; i <= releaseSamples; i++ {
		if got := e.Process(); got != 0 {
			t.Fatalf("idle note-off produced %f at sample %d", got, i)
		}
	}
	if e.Active() {
		t.Fatalf("envelope active after release tail drained")
	}
}

func TestFractionalDurationsStayExact(t *testing.T) {
	// 10ms at 44100 Hz is exactly 441 samples; sample 441 must hit the
	// peak, not 440 or 442.
	e := New(rate)
	e.SetAttack(10)
	e.NoteOn(1)
	var got float64
	for i := 0; i <= 441; i++ {
		got = e.Process()
	}
	if got != 1 {
		t.Fatalf("sample 441 = %f, want exact peak 1", got)
	}
}
