package polysynth

import (
	"sync"
	"time"

	intaudio "github.com/ssilas/polysynth-go/internal/audio"
)

// Player streams a Synth to the system audio device. It owns the
// device stream only; note events and patch changes go directly to
// the Synth, which is safe to poke from any goroutine while the
// stream pulls blocks from it.
type Player struct {
	mu    sync.Mutex
	synth *Synth
	audio *intaudio.Player
}

// NewPlayer opens an audio stream over the synth at its sample rate.
// Playback starts paused; call Play.
func NewPlayer(s *Synth) (*Player, error) {
	backend, err := intaudio.NewPlayer(s.SampleRate(), s)
	if err != nil {
		return nil, err
	}
	return &Player{synth: s, audio: backend}, nil
}

// Synth returns the synth feeding the stream.
func (p *Player) Synth() *Synth {
	return p.synth
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

// Position returns the output position of the audio driver, i.e.
// what the listener hears right now.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return 0
	}
	return p.audio.Position()
}

// Stop silences the synth and closes the device stream. The player
// cannot be restarted after Stop.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	p.synth.Reset()
	return err
}
