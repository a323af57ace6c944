package mp2audio

import "math"

// synthesisMatrix is the 64x32 Layer II/III synthesis matrixing equation
// (ISO 11172-3 Annex 3-B.4), precomputed once instead of re-evaluating 2048
// cosines per sub-block: V[i] = sum_j S[j] * cos((16+i)*(2j+1)*pi/64).
var synthesisMatrix [64][32]float64

func init() {
	for i := 0; i < 64; i++ {
		for j := 0; j < 32; j++ {
			synthesisMatrix[i][j] = math.Cos(float64(16+i) * float64(2*j+1) * math.Pi / 64)
		}
	}
}

func idct32(s [32]float64) [64]float64 {
	var v [64]float64
	for i := 0; i < 64; i++ {
		var sum float64
		row := synthesisMatrix[i]
		for j := 0; j < 32; j++ {
			sum += s[j] * row[j]
		}
		v[i] = sum
	}
	return v
}

// synthesize runs one 32-subband-sample sub-block through channel ch's
// polyphase synthesis filter, per spec.md §4.3 item 6, and writes 32 PCM
// samples into out starting at outPos.
func (d *Decoder) synthesize(ch int, s [32]float64, out *Samples, outPos int) {
	d.vPos[ch] = (d.vPos[ch] - 64) & 1023
	vp := d.vPos[ch]

	vvals := idct32(s)
	for i := 0; i < 64; i++ {
		d.v[ch][(vp+i)%1024] = vvals[i]
	}

	var u [32]float64

	dIdx := 512 - (vp >> 1)
	vIdx := (vp % 128) >> 1
	for vIdx < 1024 {
		for k := 0; k < 32; k++ {
			u[k] += synthesisWindow[dIdx+k] * d.v[ch][(vIdx+k)%1024]
		}
		vIdx += 128
		dIdx += 64
	}

	dIdx -= 512 - 32
	vIdx = 128 - 32 + 1024 - vIdx
	for vIdx < 1024 {
		for k := 0; k < 32; k++ {
			u[k] += synthesisWindow[dIdx+k] * d.v[ch][(vIdx+k)%1024]
		}
		vIdx += 128
		dIdx += 64
	}

	const norm = 2147418112.0
	for k, val := range u {
		sample := float32(val / norm)
		if ch == 0 {
			out.Left[outPos+k] = sample
		} else {
			out.Right[outPos+k] = sample
		}
	}
}
