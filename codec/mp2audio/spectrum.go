package mp2audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum returns the Hann-windowed FFT magnitude of one channel (0=left,
// 1=right) of a decoded frame, mirroring codec/pcm/filters.go's
// fft.FFTReal + go-dsp/window usage. It is a diagnostic, not used by
// Decode; cmd/mpeg1probe's -spectrum flag calls it.
func Spectrum(s *Samples, channel int) []float64 {
	src := s.Left[:]
	if channel == 1 {
		src = s.Right[:]
	}

	windowed := make([]float64, len(src))
	win := window.Hann(len(src))
	for i, v := range src {
		windowed[i] = float64(v) * win[i]
	}

	spectrum := fft.FFTReal(windowed)
	mags := make([]float64, len(spectrum)/2)
	for i := range mags {
		mags[i] = math.Hypot(real(spectrum[i]), imag(spectrum[i]))
	}
	return mags
}
