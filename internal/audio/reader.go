// Package audio provides WAV file I/O for the mixing pipeline: decoding
// to normalized mono float signals and encoding 16-bit PCM output.
package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ErrNoAudio is returned when a file decodes to no samples.
var ErrNoAudio = errors.New("audio: no audio data")

// Clip is a decoded mono signal with samples normalized to [-1, 1].
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// ReadMono decodes a WAV file into a normalized mono float signal.
// Integer PCM is scaled by its bit depth to [-1, 1); multi-channel
// audio is averaged down to mono.
func ReadMono(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAudio, path)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels in %s", ErrNoAudio, path)
	}
	if dec.BitDepth < 8 || dec.BitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d in %s", dec.BitDepth, path)
	}
	scale := float64(uint64(1) << (dec.BitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / (float64(channels) * scale)
	}

	return &Clip{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}
