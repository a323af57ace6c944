package mp2audio

import (
	"math"
	"testing"

	"github.com/deepcodec/mpeg1ps/bitbuf"
)

func TestLookupScaleFactorSilentCode(t *testing.T) {
	if got := lookupScaleFactor(63); got != 0 {
		t.Errorf("lookupScaleFactor(63) = %d, want 0", got)
	}
}

func TestLookupScaleFactorBaseCodes(t *testing.T) {
	for code := 0; code < 3; code++ {
		got := lookupScaleFactor(code)
		want := scaleFactorBase[code%3]
		if got != want {
			t.Errorf("lookupScaleFactor(%d) = %#x, want %#x (shift 0)", code, got, want)
		}
	}
	// code 3 shifts base[0] right by one (3/3=1).
	if got, want := lookupScaleFactor(3), scaleFactorBase[0]>>1; got != want {
		t.Errorf("lookupScaleFactor(3) = %#x, want %#x", got, want)
	}
}

// TestReadScaleFactorsPatterns checks that each of the 4 sfInfo patterns
// reads the right number of distinct 6-bit codes off the wire and expands
// them to the right sub.sf slots.
func TestReadScaleFactorsPatterns(t *testing.T) {
	tests := []struct {
		name       string
		sfInfo     uint8
		codes      []int // distinct codes written to the wire, in order
		wantGroups [3]int
	}{
		{"independent", 0, []int{10, 20, 30}, [3]int{10, 20, 30}},
		{"groups01share", 1, []int{5, 40}, [3]int{5, 5, 40}},
		{"allshare", 2, []int{7}, [3]int{7, 7, 7}},
		{"groups12share", 3, []int{1, 2}, [3]int{1, 2, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := &bitWriter{}
			for _, c := range tc.codes {
				w.write(c, 6)
			}
			b := bitbuf.FromBytes(w.bytes())

			sub := &subband{sfInfo: tc.sfInfo}
			readScaleFactors(b, sub)

			for i := 0; i < 3; i++ {
				want := lookupScaleFactor(tc.wantGroups[i])
				if sub.sf[i] != want {
					t.Errorf("sf[%d] = %#x, want %#x (code %d)", i, sub.sf[i], want, tc.wantGroups[i])
				}
			}
		})
	}
}

func TestReadRawTripleGrouped(t *testing.T) {
	// specIndex 1 -> {levels:3, grouped:true, bits:5}. Encode grouped code
	// for raw = {2, 1, 0}: code = raw[0] + raw[1]*3 + raw[2]*9.
	raw := [3]int64{2, 1, 0}
	code := raw[0] + raw[1]*3 + raw[2]*9
	w := &bitWriter{}
	w.write(int(code), 5)
	b := bitbuf.FromBytes(w.bytes())

	got := readRawTriple(b, 1)
	if got != raw {
		t.Errorf("readRawTriple = %v, want %v", got, raw)
	}
}

func TestReadRawTripleUngrouped(t *testing.T) {
	// specIndex 3 -> {levels:7, grouped:false, bits:3}: three direct reads.
	raw := [3]int64{1, 5, 6}
	w := &bitWriter{}
	for _, v := range raw {
		w.write(int(v), 3)
	}
	b := bitbuf.FromBytes(w.bytes())

	got := readRawTriple(b, 3)
	if got != raw {
		t.Errorf("readRawTriple = %v, want %v", got, raw)
	}
}

// TestDequantizeTripleMidpointIsZero checks that the quantizer code at the
// exact middle of the level range dequantizes to (near) zero, regardless of
// scale factor, matching the requantization formula's symmetric bias.
func TestDequantizeTripleMidpointIsZero(t *testing.T) {
	specIndex := 5 // {levels:15, grouped:false, bits:4}
	mid := int64(quantizerTable[specIndex].levels / 2)
	raw := [3]int64{mid, mid, mid}

	out := dequantizeTriple(raw, specIndex, scaleFactorBase[0])
	for i, v := range out {
		if math.Abs(v) > 1 {
			t.Errorf("out[%d] = %v, want ~0 at the midpoint code", i, v)
		}
	}
}

func TestDequantizeTripleZeroSpecIndex(t *testing.T) {
	out := dequantizeTriple([3]int64{1, 2, 3}, 0, scaleFactorBase[0])
	if out != ([3]float64{}) {
		t.Errorf("dequantizeTriple with specIndex 0 = %v, want all zero", out)
	}
}
