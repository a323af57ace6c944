package mpeg1video

import "math"

// zigzag is the fixed permutation of the 64 coefficient positions used to
// serialize a 2-D 8x8 block into a 1-D sequence (ISO 11172-2 Figure 2-D).
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// defaultIntraQuant is the ISO 11172-2 default intra quantizer matrix,
// stored in zig-zag (not raster) order, matching how the sequence header's
// optional custom matrices are loaded.
var defaultIntraQuant = [64]uint8{
	8, 16, 19, 22, 26, 27, 29, 34,
	16, 16, 22, 24, 27, 29, 34, 37,
	19, 22, 26, 27, 29, 34, 34, 38,
	22, 22, 26, 27, 29, 34, 37, 40,
	22, 26, 27, 29, 32, 35, 40, 48,
	26, 27, 29, 32, 35, 40, 48, 58,
	26, 27, 29, 34, 38, 46, 56, 69,
	27, 29, 35, 38, 46, 56, 69, 83,
}

// defaultNonIntraQuant is the ISO 11172-2 default non-intra quantizer
// matrix: uniform 16 at every position.
var defaultNonIntraQuant = [64]uint8{
	16, 16, 16, 16, 16, 16, 16, 16,
	16, 16, 16, 16, 16, 16, 16, 16,
	16, 16, 16, 16, 16, 16, 16, 16,
	16, 16, 16, 16, 16, 16, 16, 16,
	16, 16, 16, 16, 16, 16, 16, 16,
	16, 16, 16, 16, 16, 16, 16, 16,
	16, 16, 16, 16, 16, 16, 16, 16,
	16, 16, 16, 16, 16, 16, 16, 16,
}

// pictureRate maps the 4-bit picture-rate code of the sequence header to
// frames per second. Index 0 and 9-15 are reserved.
var pictureRate = [16]float64{
	0, 23.976, 24.000, 25.000,
	29.970, 30.000, 50.000, 59.940,
	60.000, 0, 0, 0,
	0, 0, 0, 0,
}

// IDCT fixed-point rotation multipliers (scale 256): idctC2 is 2*cos(pi/4),
// idctC1/idctC3 are the two-multiply decomposition of the pi/8 rotation
// used by the odd-frequency butterfly. Both the column pass and row pass
// of idct() use all three, each multiply followed by +128 rounding and an
// 8-bit shift.
const (
	idctC1 = 473 // 2*cos(pi/8)*256
	idctC2 = 362 // 2*cos(pi/4)*256, i.e. sqrt(2)*256
	idctC3 = 196 // 2*sin(pi/8)*256
)

// premultiplier absorbs the AAN 1-D scale factors into the 2-D
// dequantization step (block[z] = level * premultiplier[z]) so that the
// fast butterfly passes in idct() need no further per-coefficient scaling;
// the raw output of idct() is therefore 8x the ordinary IDCT output on top
// of the 2^11 fixed-point scale below, and block placement removes both
// with its final rounded shift by idctScaleBits (11+3 = 14).
//
// Derived at init from the standard AAN 1-D scale factors
// c[0..7] = {1, 1.387039845, 1.306562965, 1.175875602, 1, 0.785694958,
// 0.541196100, 0.275899379}, matching the well known AAN fast-IDCT
// construction (e.g. as used by libjpeg's jidctfst.c); the 2-D factor for
// raster position (row,col) is c[row]*c[col], fixed-point scaled by 2^11
// and folded together with the zig-zag permutation so indexing is by
// zig-zag position z, matching how quantizer matrices are stored.
var premultiplier [64]int32

func init() {
	c := [8]float64{
		1.0, 1.387039845, 1.306562965, 1.175875602,
		1.0, 0.785694958, 0.541196100, 0.275899379,
	}
	const scale = 1 << 11
	for z := 0; z < 64; z++ {
		raster := zigzagInverse(z)
		row := raster / 8
		col := raster % 8
		premultiplier[z] = int32(math.Round(c[row] * c[col] * scale))
	}
}

// zigzagInverse returns the raster-order index for zig-zag position z.
func zigzagInverse(z int) int {
	return zigzag[z]
}
