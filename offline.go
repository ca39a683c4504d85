package polysynth

import (
	"encoding/binary"
	"math"

	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"

	"github.com/ssilas/polysynth-go/internal/poly"
)

// RenderSequence renders a sequence through a fresh voice pool and
// returns mono float32 samples. The whole sequence is dispatched in
// one block, so event timing is sample exact. Frames should cover the
// sequence end plus the patch's release tail; anything still sounding
// at the end is simply cut.
func RenderSequence(patch Patch, seq Sequence, sampleRate, frames int) []float32 {
	p := patch.Clamped()
	engine := poly.New(float64(sampleRate), poly.DefaultMaxVoices)
	engine.Apply(p.engineParams())
	buf := make([]float64, frames)
	engine.ProcessEvents(buf, seq.engineEvents())
	if frames > 0 {
		vek.MulNumber_Inplace(buf, p.Gain)
	}
	out := make([]float32, frames)
	for i, v := range buf {
		out[i] = float32(v)
	}
	return out
}

// RenderSequenceStereo renders a sequence and duplicates the mono mix
// onto two interleaved channels, matching the realtime output format.
func RenderSequenceStereo(patch Patch, seq Sequence, sampleRate, frames int) []float32 {
	mono := RenderSequence(patch, seq, sampleRate, frames)
	out := make([]float32, frames*2)
	for i, v := range mono {
		out[2*i] = v
		out[2*i+1] = v
	}
	return out
}

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	hi := vek32.Max(samples)
	lo := vek32.Min(samples)
	if -lo > hi {
		return -lo
	}
	return hi
}

// RMS returns the root mean square level of the buffer.
func RMS(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	sq := make([]float32, len(samples))
	vek32.Mul_Into(sq, samples, samples)
	return float32(math.Sqrt(float64(vek32.Mean(sq))))
}

// EncodeWAVFloat32LE wraps samples in a WAV container (format 3,
// IEEE float, little endian).
func EncodeWAVFloat32LE(samples []float32, sampleRate, channels int) []byte {
	dataSize := len(samples) * 4
	out := make([]byte, 44+dataSize)
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*channels*4))
	binary.LittleEndian.PutUint16(out[32:], uint16(channels*4))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
