package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/ssilas/polysynth-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		voices     = flag.Int("voices", 16, "polyphony limit")
		patchPath  = flag.String("patch", "", "path to a YAML patch file")
		waveform   = flag.String("waveform", "sine", "waveform: sine|saw|square|triangle")
		attack     = flag.Float64("attack", 10, "attack time in ms")
		decay      = flag.Float64("decay", 100, "decay time in ms")
		sustain    = flag.Float64("sustain", 0.7, "sustain level (0..1)")
		release    = flag.Float64("release", 300, "release time in ms")
		gain       = flag.Float64("gain", 0.5, "master gain")
		wavPath    = flag.String("wav", "", "render to a WAV file instead of playing")
	)
	flag.Parse()

	patch := polysynth.DefaultPatch()
	if *patchPath != "" {
		loaded, err := polysynth.LoadPatch(*patchPath)
		if err != nil {
			log.Fatal(err)
		}
		patch = loaded
	}
	// Explicit flags override the patch file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "waveform":
			patch.Waveform = *waveform
		case "attack":
			patch.AttackMs = *attack
		case "decay":
			patch.DecayMs = *decay
		case "sustain":
			patch.Sustain = *sustain
		case "release":
			patch.ReleaseMs = *release
		case "gain":
			patch.Gain = *gain
		}
	})
	if *patchPath == "" {
		patch.Gain = *gain
	}

	seq := demoSequence(*sampleRate)
	if *wavPath != "" {
		renderWAV(patch, seq, *sampleRate, *wavPath)
		return
	}

	synth, err := polysynth.NewSynth(*sampleRate, polysynth.WithMaxVoices(*voices), polysynth.WithPatch(patch))
	if err != nil {
		log.Fatal(err)
	}
	pl, err := polysynth.NewPlayer(synth)
	if err != nil {
		log.Fatal(err)
	}
	pl.Play()
	playSequence(synth, seq, *sampleRate)
	// Let release tails ring out.
	time.Sleep(time.Duration(patch.ReleaseMs)*time.Millisecond + 200*time.Millisecond)
	if err := pl.Stop(); err != nil {
		log.Fatal(err)
	}
}

func renderWAV(patch polysynth.Patch, seq polysynth.Sequence, sampleRate int, path string) {
	tail := int(patch.ReleaseMs / 1000 * float64(sampleRate))
	frames := seq.End() + tail
	samples := polysynth.RenderSequenceStereo(patch, seq, sampleRate, frames)
	data := polysynth.EncodeWAVFloat32LE(samples, sampleRate, 2)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s: %d frames, peak %.3f, rms %.3f\n",
		path, frames, polysynth.Peak(samples), polysynth.RMS(samples))
}

// playSequence dispatches the sequence in real time by sleeping
// between event frames. Timing here is wall-clock coarse; the synth
// applies each event at the start of its next audio block.
func playSequence(s *polysynth.Synth, seq polysynth.Sequence, sampleRate int) {
	events := make([]polysynth.NoteEvent, len(seq.Events))
	copy(events, seq.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
	start := time.Now()
	for _, ev := range events {
		at := time.Duration(ev.Frame) * time.Second / time.Duration(sampleRate)
		if d := at - time.Since(start); d > 0 {
			time.Sleep(d)
		}
		if ev.On {
			s.NoteOn(ev.Note, ev.Velocity)
		} else {
			s.NoteOff(ev.Note)
		}
	}
}

// demoSequence is a short arpeggiated chord progression ending on a
// held chord, enough to hear allocation, release tails and stacking.
func demoSequence(sampleRate int) polysynth.Sequence {
	var seq polysynth.Sequence
	eighth := sampleRate / 4
	chords := [][]int{
		{60, 64, 67}, // C
		{57, 60, 64}, // Am
		{53, 57, 60}, // F
		{55, 59, 62}, // G
	}
	frame := 0
	for _, chord := range chords {
		for _, note := range chord {
			seq.Note(frame, eighth, note, 0.8)
			frame += eighth
		}
		frame += eighth
	}
	for _, note := range []int{60, 64, 67, 72} {
		seq.Note(frame, 4*eighth, note, 0.9)
	}
	return seq
}
