package mpeg1video

// idct performs the inverse 8x8 DCT on a block of AAN-prescaled,
// dequantized coefficients (coefficient[z] already carries
// premultiplier[z]'s scale), in place, column pass then row pass. This is
// a fixed-point port of the classic Arai-Agui-Nakajima factorisation (the
// same even/odd split and pi/8, pi/4 rotations as libjpeg's float IDCT),
// using idctC1/idctC2/idctC3 in place of the floating rotation constants.
//
// Because the AAN prescale was folded in at dequantization rather than
// removed by a matching postscale here, the two passes leave the overall
// output scaled up by premultiplier's 2^11 fixed-point base and by the
// transform's own factor of 8 (2^3); callers must right-shift by
// idctScaleBits (with rounding) to recover pixel-domain residuals.
const idctScaleBits = 14

func idct(blk *[64]int32) {
	for col := 0; col < 8; col++ {
		idct1D(blk, col, 8)
	}
	for row := 0; row < 8; row++ {
		idct1D(blk, row*8, 1)
	}
}

// idct1D transforms the 8 values at blk[base], blk[base+stride], ...,
// blk[base+7*stride] in place.
func idct1D(blk *[64]int32, base, stride int) {
	get := func(k int) int64 { return int64(blk[base+k*stride]) }
	set := func(k int, v int64) { blk[base+k*stride] = int32(v) }

	t0, t1, t2, t3 := get(0), get(2), get(4), get(6)

	tmp10 := t0 + t2
	tmp11 := t0 - t2
	tmp13 := t1 + t3
	tmp12 := rshift(((t1-t3)*idctC2), 8) - tmp13

	e0 := tmp10 + tmp13
	e3 := tmp10 - tmp13
	e1 := tmp11 + tmp12
	e2 := tmp11 - tmp12

	t4, t5, t6, t7 := get(1), get(3), get(5), get(7)

	z13 := t6 + t5
	z10 := t6 - t5
	z11 := t4 + t7
	z12 := t4 - t7

	o7 := z11 + z13
	o11 := rshift((z11-z13)*idctC2, 8)

	z5 := rshift((z10+z12)*idctC1, 8)
	o10 := rshift((idctC1-idctC3)*z12, 8) - z5
	o12 := z5 - rshift((idctC1+idctC3)*z10, 8)

	o6 := o12 - o7
	o5 := o11 - o6
	o4 := o10 + o5

	set(0, e0+o7)
	set(7, e0-o7)
	set(1, e1+o6)
	set(6, e1-o6)
	set(2, e2+o5)
	set(5, e2-o5)
	set(4, e3+o4)
	set(3, e3-o4)
}

// rshift performs a rounded arithmetic right shift by n bits.
func rshift(v int64, n uint) int64 {
	return (v + (1 << (n - 1))) >> n
}
