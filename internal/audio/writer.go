package audio

import (
	"fmt"
	"math"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteMono encodes a mono float signal as a 16-bit PCM WAV file.
// Samples outside [-1, 1] are clamped.
func WriteMono(path string, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(math.Round(s * 32767))
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return f.Close()
}
