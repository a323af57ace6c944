package mpeg1video

// signExtend applies ISO 11172-2's differential sign-extension formula:
// an n-bit unsigned code whose top bit is 0 decodes to a negative value
// mirrored around -(2^n-1), otherwise it decodes to itself.
func signExtend(code int32, size int) int32 {
	half := int32(1) << uint(size-1)
	if code < half {
		return code - (int32(1)<<uint(size) - 1)
	}
	return code
}

// readEscapeLevel decodes the fixed-length escape level of Table B.14:
// an 8-bit signed value, except 0 and -128 which flag a wider 16-bit
// encoding (the short codes they would otherwise collide with).
func (d *Decoder) readEscapeLevel() int32 {
	v := int32(int8(d.buf.Read(8)))
	switch v {
	case 0:
		return int32(d.buf.Read(8))
	case -128:
		return int32(d.buf.Read(8)) - 256
	default:
		return v
	}
}

// blockPlaneKind reports which dcPred slot (0=Y, 1=Cb, 2=Cr) and which
// DC-size table class (0=luminance, 1=chrominance) a block index uses.
func blockPlaneKind(block int) (dcSlot, sizeClass int) {
	switch block {
	case 4:
		return 1, 1
	case 5:
		return 2, 1
	default:
		return 0, 0
	}
}

// blockOrigin returns the top-left sample coordinate of block within the
// current macroblock, and the Plane it belongs to.
func (d *Decoder) blockOrigin(block int) (*Plane, int, int) {
	cur := d.frames[d.curIdx]
	switch block {
	case 0:
		return &cur.Y, d.mbRow * 16, d.mbCol * 16
	case 1:
		return &cur.Y, d.mbRow * 16, d.mbCol*16 + 8
	case 2:
		return &cur.Y, d.mbRow*16 + 8, d.mbCol * 16
	case 3:
		return &cur.Y, d.mbRow*16 + 8, d.mbCol*16 + 8
	case 4:
		return &cur.Cb, d.mbRow * 8, d.mbCol * 8
	default:
		return &cur.Cr, d.mbRow * 8, d.mbCol * 8
	}
}

// decodeBlock parses one of a macroblock's six 8x8 blocks: DC predictor
// plus differential for intra blocks, then the shared run-length AC
// (and, for non-intra, full) coefficient loop, dequantization, IDCT, and
// placement into the current frame.
func (d *Decoder) decodeBlock(block int, intra bool) {
	dcSlot, sizeClass := blockPlaneKind(block)

	var coeff [64]int32
	pos := 0
	if intra {
		size, ok := d.buf.ReadVLC(dctSizeVLC(sizeClass))
		var diff int32
		if ok && size > 0 {
			bits := int32(d.buf.Read(int(size)))
			diff = signExtend(bits, int(size))
		}
		d.dcPred[dcSlot] += diff
		coeff[0] = d.dcPred[dcSlot] * 8
		pos = 1
	}

	first := !intra
loop:
	for pos < 64 {
		v, ok := d.buf.ReadVLC(dctCoeffVLC)
		if !ok {
			break
		}
		switch v {
		case dctCoeffEscape:
			run := int(d.buf.Read(6))
			level := d.readEscapeLevel()
			pos += run
			if pos >= 64 {
				break loop
			}
			coeff[pos] = level
			pos++
			first = false
		case dctCoeffOne:
			if !first && d.buf.Read(1) == 0 {
				break loop
			}
			sign := d.buf.Read(1)
			lvl := int32(1)
			if sign == 1 {
				lvl = -1
			}
			coeff[pos] = lvl
			pos++
			first = false
		default:
			run := int(v >> 8)
			lvl := int32(v & 0xFF)
			sign := d.buf.Read(1)
			if sign == 1 {
				lvl = -lvl
			}
			pos += run
			if pos >= 64 {
				break loop
			}
			coeff[pos] = lvl
			pos++
			first = false
		}
	}

	acZero := true
	for z := 1; z < 64; z++ {
		if coeff[z] != 0 {
			acZero = false
			break
		}
	}

	for z := 0; z < 64; z++ {
		if intra && z == 0 {
			coeff[0] *= premultiplier[0]
			continue
		}
		raw := coeff[z]
		if raw == 0 {
			continue
		}
		var qm uint8
		if intra {
			qm = d.intraQuant[z]
		} else {
			qm = d.nonIntraQuant[z]
		}
		sign := int32(1)
		if raw < 0 {
			sign = -1
		}
		val := (2*raw + sign) * int32(d.quantScale) * int32(qm) / 16
		if val > 2047 {
			val = 2047
		} else if val < -2048 {
			val = -2048
		}
		coeff[z] = val * premultiplier[z]
	}

	var residual [64]int32
	if acZero {
		dc := int32(rshift(int64(coeff[0]), idctScaleBits))
		for i := range residual {
			residual[i] = dc
		}
	} else {
		var raster [64]int32
		for z := 0; z < 64; z++ {
			raster[zigzagInverse(z)] = coeff[z]
		}
		idct(&raster)
		for i := 0; i < 64; i++ {
			residual[i] = int32(rshift(int64(raster[i]), idctScaleBits))
		}
	}

	plane, baseRow, baseCol := d.blockOrigin(block)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			val := residual[r*8+c]
			if intra {
				plane.set(baseRow+r, baseCol+c, clamp8(val))
			} else {
				cur := int32(plane.at(baseRow+r, baseCol+c))
				plane.set(baseRow+r, baseCol+c, clamp8(cur+val))
			}
		}
	}
}
