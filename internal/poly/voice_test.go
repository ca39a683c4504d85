package poly

import (
	"math"
	"testing"

	"github.com/ssilas/polysynth-go/internal/osc"
)

func TestNoteToFreq(t *testing.T) {
	cases := []struct {
		note int
		want float64
	}{
		{69, 440},
		{57, 220},
		{81, 880},
		{60, 261.6255653005986},
	}
	for _, tc := range cases {
		if got := noteToFreq(tc.note); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("noteToFreq(%d) = %f, want %f", tc.note, got, tc.want)
		}
	}
}

func TestNoteToFreqFiniteForAnyNote(t *testing.T) {
	for _, note := range []int{-20, 0, 127, 150} {
		got := noteToFreq(note)
		if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 {
			t.Fatalf("noteToFreq(%d) = %f", note, got)
		}
	}
}

func TestVoiceLifecycle(t *testing.T) {
	v := newVoice(44100)
	if v.State() != VoiceIdle {
		t.Fatalf("new voice state = %v, want idle", v.State())
	}
	v.NoteOn(60, 1)
	if v.State() != VoiceActive || v.Note() != 60 {
		t.Fatalf("after note-on: state=%v note=%d", v.State(), v.Note())
	}
	v.NoteOff()
	if v.State() != VoiceReleasing {
		t.Fatalf("after note-off: state=%v, want releasing", v.State())
	}
	// Drain the default 300ms release tail.
	for i := 0; i < 44100; i++ {
		v.Process()
	}
	if v.State() != VoiceIdle {
		t.Fatalf("voice did not return to idle after release tail")
	}
}

func TestVoicePitchTracksNote(t *testing.T) {
	// A5 (note 81, 880 Hz) over one second should cross zero about
	// 1760 times.
	v := newVoice(44100)
	v.SetWaveform(osc.Sine)
	v.SetAttack(0)
	v.SetDecay(0)
	v.SetSustain(1)
	v.NoteOn(81, 1)
	crossings := 0
	prev := v.Process()
	for i := 1; i < 44100; i++ {
		cur := v.Process()
		if (prev < 0 && cur >= 0) || (prev >= 0 && cur < 0) {
			crossings++
		}
		prev = cur
	}
	if crossings < 1752 || crossings > 1768 {
		t.Fatalf("expected about 1760 crossings, got %d", crossings)
	}
}

func TestVoiceVelocityScalesAmplitude(t *testing.T) {
	loud := newVoice(44100)
	soft := newVoice(44100)
	for _, v := range []*Voice{&loud, &soft} {
		v.SetAttack(0)
		v.SetDecay(0)
		v.SetSustain(1)
	}
	loud.NoteOn(69, 1)
	soft.NoteOn(69, 0.25)
	for i := 0; i < 1024; i++ {
		l := loud.Process()
		s := soft.Process()
		if math.Abs(s*4-l) > 1e-9 {
			t.Fatalf("sample %d: soft %f is not a quarter of loud %f", i, s, l)
		}
	}
}

func TestVoiceSilentWhenIdle(t *testing.T) {
	v := newVoice(44100)
	for i := 0; i < 100; i++ {
		if got := v.Process(); got != 0 {
			t.Fatalf("idle voice produced %f", got)
		}
	}
}

func TestVoiceResetCutsReleaseTail(t *testing.T) {
	v := newVoice(44100)
	v.SetAttack(0)
	v.SetDecay(0)
	v.SetSustain(1)
	v.NoteOn(60, 1)
	v.Process()
	v.NoteOff()
	v.Reset()
	if v.State() != VoiceIdle {
		t.Fatalf("state after reset = %v", v.State())
	}
	if got := v.Process(); got != 0 {
		t.Fatalf("reset voice produced %f", got)
	}
}
