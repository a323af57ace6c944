package mpeg1video

import "testing"

// TestIDCTDCImpulse checks the defining property of a pure-DC input: the
// inverse transform of a single DC coefficient is a flat block at one
// eighth of the coefficient's value, since every basis function except
// the DC one averages to zero.
func TestIDCTDCImpulse(t *testing.T) {
	const level = 100
	var blk [64]int32
	blk[0] = level * premultiplier[0]

	idct(&blk)

	want := int32(rshift(int64(blk[0]), idctScaleBits))
	for i, v := range blk {
		got := int32(rshift(int64(v), idctScaleBits))
		if got != want {
			t.Fatalf("position %d: got %d, want flat value %d", i, got, want)
		}
	}
	if want < level/8-2 || want > level/8+2 {
		t.Errorf("flat output %d too far from %d, one eighth of the input DC coefficient %d", want, level/8, level)
	}
}

// TestIDCTZeroInput checks the trivial case: an all-zero block transforms
// to an all-zero block.
func TestIDCTZeroInput(t *testing.T) {
	var blk [64]int32
	idct(&blk)
	for i, v := range blk {
		if v != 0 {
			t.Fatalf("position %d: got %d, want 0", i, v)
		}
	}
}

// TestIDCTHorizontalFrequencyIsRowInvariant checks a structural property
// of the separable transform: a coefficient at a purely horizontal
// frequency (row 0) produces a pattern that repeats identically in every
// row, since no vertical basis function beyond the DC one is excited.
func TestIDCTHorizontalFrequencyIsRowInvariant(t *testing.T) {
	var blk [64]int32
	// Raster position (row=0, col=1): a horizontal AC frequency.
	blk[1] = 50 * premultiplier[zigzagForRaster(1)]

	idct(&blk)

	row0 := blk[0:8]
	for r := 1; r < 8; r++ {
		row := blk[r*8 : r*8+8]
		for c := 0; c < 8; c++ {
			if row[c] != row0[c] {
				t.Fatalf("row %d col %d: got %d, want %d (same as row 0)", r, c, row[c], row0[c])
			}
		}
	}
}

// zigzagForRaster is the test-local inverse of zigzagInverse: given a
// raster position, return its zig-zag index, so a test can address
// premultiplier (which is indexed by zig-zag position) by raster
// coordinate.
func zigzagForRaster(raster int) int {
	for z, r := range zigzag {
		if r == raster {
			return z
		}
	}
	return 0
}
