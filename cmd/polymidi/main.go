package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/ssilas/polysynth-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		voices     = flag.Int("voices", 16, "polyphony limit")
		patchPath  = flag.String("patch", "", "path to a YAML patch file")
		portName   = flag.String("port", "", "MIDI input port name prefix (default: first port)")
		list       = flag.Bool("list", false, "list MIDI input ports and exit")
	)
	flag.Parse()

	drv, err := rtmididrv.New()
	if err != nil {
		log.Fatal(err)
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		log.Fatal(err)
	}
	if *list {
		for i, in := range ins {
			fmt.Printf("%d: %s\n", i, in.String())
		}
		return
	}

	in, err := pickInput(ins, *portName)
	if err != nil {
		log.Fatal(err)
	}
	if err := in.Open(); err != nil {
		log.Fatal(err)
	}

	patch := polysynth.DefaultPatch()
	patch.Gain = 0.5
	if *patchPath != "" {
		if patch, err = polysynth.LoadPatch(*patchPath); err != nil {
			log.Fatal(err)
		}
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

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			synth.NoteOn(int(key), float64(vel)/127)
		case msg.GetNoteOff(&ch, &key, &vel):
			synth.NoteOff(int(key))
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("listening on %q, %d voices, %s patch", in.String(), *voices, patch.Waveform)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	stop()
	if err := pl.Stop(); err != nil {
		log.Fatal(err)
	}
}

func pickInput(ins []drivers.In, prefix string) (drivers.In, error) {
	if prefix == "" {
		if len(ins) == 0 {
			return nil, fmt.Errorf("no MIDI input ports found")
		}
		return ins[0], nil
	}
	for _, in := range ins {
		if strings.HasPrefix(in.String(), prefix) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input port starts with %q", prefix)
}
