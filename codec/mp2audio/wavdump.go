package mp2audio

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormat = 1 // PCM

// DumpWAV encodes a run of decoded frames to a 16-bit stereo WAV container
// via go-audio/wav, mirroring exp/flac/decode.go's
// audio.IntBuffer+wav.Encoder pairing. It is a diagnostic helper, not part
// of the decode hot path: cmd/mpeg1probe's -wav flag uses it to make
// decoded audio inspectable outside the library.
func DumpWAV(w io.WriteSeeker, frames []*Samples, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 2, wavFormat)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}

	data := make([]int, 0, 1152*2)
	for _, f := range frames {
		data = data[:0]
		for i := 0; i < len(f.Left); i++ {
			data = append(data, float32ToPCM16(f.Left[i]), float32ToPCM16(f.Right[i]))
		}
		buf.Data = data
		if err := enc.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func float32ToPCM16(v float32) int {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int(v * 32767)
}
