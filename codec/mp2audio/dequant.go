package mp2audio

import "github.com/deepcodec/mpeg1ps/bitbuf"

// sfPattern enumerates the four scale-factor transmission patterns ISO
// 11172-3 Table 3-B.4 selects via the 2-bit scale-factor select info: how
// many of the 3 per-subband scale factors are actually coded, and which
// scale-factor groups (parts) share a code.
var sfPattern = [4][3]int{
	{0, 1, 2}, // pattern 0b00: three independent codes
	{0, 0, 1}, // pattern 0b01: groups 0 and 1 share
	{0, 0, 0}, // pattern 0b10: all three groups share
	{0, 1, 1}, // pattern 0b11: groups 1 and 2 share
}

// readScaleFactors reads the 6-bit scale-factor code(s) this subband's
// sfInfo pattern calls for and expands them across sub.sf[0..2]. Distinct
// slot numbers in sfPattern are read in ascending order of first
// appearance, since codes arrive on the wire in that order.
func readScaleFactors(b *bitbuf.Buffer, sub *subband) {
	pattern := sfPattern[sub.sfInfo]
	var distinct [3]int
	numDistinct := 0
	var codes [3]int
	for i := 0; i < 3; i++ {
		slot := pattern[i]
		if slot >= numDistinct {
			distinct[numDistinct] = int(b.Read(6))
			numDistinct++
		}
		codes[i] = distinct[slot]
	}
	for i, c := range codes {
		sub.sf[i] = lookupScaleFactor(c)
	}
}

// lookupScaleFactor turns a 6-bit scale-factor code into the fixed-point
// multiplier spec.md §4.3 item 5 defines: 0 for the "silent" code 63,
// otherwise one of the three scaleFactorBase values right-shifted by
// code/3.
func lookupScaleFactor(code int) uint32 {
	if code == 63 {
		return 0
	}
	return scaleFactorBase[code%3] >> uint(code/3)
}

// readRawTriple reads the three raw (not yet dequantized) quantizer codes
// for one subband/channel/part, either as one grouped codeword decomposed
// by repeated division (spec.grouped) or as three direct reads.
func readRawTriple(b *bitbuf.Buffer, specIndex int) [3]int64 {
	if specIndex == 0 {
		return [3]int64{}
	}
	spec := quantizerTable[specIndex]
	var raw [3]int64
	if spec.grouped {
		code := int64(b.Read(spec.bits))
		levels := int64(spec.levels)
		for i := 0; i < 3; i++ {
			raw[i] = code % levels
			code /= levels
		}
	} else {
		for i := 0; i < 3; i++ {
			raw[i] = int64(b.Read(spec.bits))
		}
	}
	return raw
}

// dequantizeTriple converts three raw quantizer codes into fixed-point
// subband samples, applying spec.md §4.3 item 5's requantization formula:
//
//	adj = levels; scale_q = 65536/(adj+1); bias = ((adj+1)>>1) - 1
//	val = (bias - sample) * scale_q
//	sample = ((val*(sf>>12)) + ((val*(sf&4095) + 2048)>>12)) >> 12
//
// sf's high/low 12-bit split lets the multiply stay inside the precision a
// reference fixed-point implementation would have used; Go's int64 doesn't
// strictly need the split, but the formula is kept verbatim since the
// spec calls it out as an invariant.
func dequantizeTriple(raw [3]int64, specIndex int, sf uint32) [3]float64 {
	if specIndex == 0 {
		return [3]float64{}
	}
	spec := quantizerTable[specIndex]
	adj := int64(spec.levels)
	scaleQ := int64(65536) / (adj + 1)
	bias := (adj+1)>>1 - 1

	var out [3]float64
	sfHi := int64(sf >> 12)
	sfLo := int64(sf & 4095)
	for i, sample := range raw {
		val := (bias - sample) * scaleQ
		fixed := (val*sfHi + (val*sfLo+2048)>>12) >> 12
		out[i] = float64(fixed)
	}
	return out
}
