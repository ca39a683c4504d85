package polysynth

import (
	"path/filepath"
	"testing"
)

func TestParsePatchFillsDefaults(t *testing.T) {
	p, err := ParsePatch([]byte("waveform: square\nattack_ms: 5\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Waveform != "square" || p.AttackMs != 5 {
		t.Fatalf("explicit fields lost: %+v", p)
	}
	def := DefaultPatch()
	if p.DecayMs != def.DecayMs || p.Sustain != def.Sustain || p.ReleaseMs != def.ReleaseMs || p.Gain != def.Gain {
		t.Fatalf("omitted fields did not default: %+v", p)
	}
}

func TestParsePatchRejectsUnknownWaveform(t *testing.T) {
	if _, err := ParsePatch([]byte("waveform: noise\n")); err == nil {
		t.Fatalf("expected error for unknown waveform")
	}
}

func TestParsePatchRejectsBadYAML(t *testing.T) {
	if _, err := ParsePatch([]byte("waveform: [unterminated\n")); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}

func TestParsePatchClampsRanges(t *testing.T) {
	p, err := ParsePatch([]byte("attack_ms: -10\nsustain: 1.5\ngain: -2\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.AttackMs != 0 {
		t.Fatalf("negative attack not clamped: %f", p.AttackMs)
	}
	if p.Sustain != 1 {
		t.Fatalf("sustain not clamped to 1: %f", p.Sustain)
	}
	if p.Gain != 0 {
		t.Fatalf("negative gain not clamped: %f", p.Gain)
	}
}

func TestPatchSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lead.yaml")
	want := Patch{Waveform: "saw", AttackMs: 2, DecayMs: 80, Sustain: 0.5, ReleaseMs: 120, Gain: 0.8}
	if err := want.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadPatch(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestLoadPatchMissingFile(t *testing.T) {
	if _, err := LoadPatch(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
