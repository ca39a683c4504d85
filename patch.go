package polysynth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ssilas/polysynth-go/internal/osc"
	"github.com/ssilas/polysynth-go/internal/poly"
)

// Patch is a persistent tone setting: waveform, envelope times and
// master gain. Patches round-trip through YAML; fields omitted from a
// file keep their defaults.
type Patch struct {
	Waveform  string  `yaml:"waveform"`
	AttackMs  float64 `yaml:"attack_ms"`
	DecayMs   float64 `yaml:"decay_ms"`
	Sustain   float64 `yaml:"sustain"`
	ReleaseMs float64 `yaml:"release_ms"`
	Gain      float64 `yaml:"gain"`
}

// DefaultPatch returns the instrument defaults: a sine with a 10ms
// attack, 100ms decay, 70% sustain, 300ms release and unity gain.
func DefaultPatch() Patch {
	return Patch{
		Waveform:  "sine",
		AttackMs:  10,
		DecayMs:   100,
		Sustain:   0.7,
		ReleaseMs: 300,
		Gain:      1,
	}
}

// ParsePatch decodes a YAML patch. Missing fields fall back to the
// defaults; an unrecognized waveform name is an error, but numeric
// fields are clamped rather than rejected.
func ParsePatch(data []byte) (Patch, error) {
	p := DefaultPatch()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Patch{}, fmt.Errorf("parsing patch: %w", err)
	}
	if _, ok := osc.Parse(p.Waveform); !ok {
		return Patch{}, fmt.Errorf("unknown waveform %q", p.Waveform)
	}
	return p.Clamped(), nil
}

// LoadPatch reads and decodes a YAML patch file.
func LoadPatch(path string) (Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Patch{}, fmt.Errorf("loading patch: %w", err)
	}
	return ParsePatch(data)
}

// Save writes the patch as YAML.
func (p Patch) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding patch: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Clamped returns a copy with every numeric field forced into its
// legal range: times and gain non-negative, sustain in [0,1].
func (p Patch) Clamped() Patch {
	if p.AttackMs < 0 {
		p.AttackMs = 0
	}
	if p.DecayMs < 0 {
		p.DecayMs = 0
	}
	if p.ReleaseMs < 0 {
		p.ReleaseMs = 0
	}
	if p.Sustain < 0 {
		p.Sustain = 0
	}
	if p.Sustain > 1 {
		p.Sustain = 1
	}
	if p.Gain < 0 {
		p.Gain = 0
	}
	return p
}

// engineParams converts the patch to the voice pool's snapshot form.
// Gain is intentionally absent: the host applies it after the pool.
func (p Patch) engineParams() poly.Params {
	w, _ := osc.Parse(p.Waveform)
	return poly.Params{
		Waveform:     int(w),
		AttackMs:     p.AttackMs,
		DecayMs:      p.DecayMs,
		SustainLevel: p.Sustain,
		ReleaseMs:    p.ReleaseMs,
	}
}
