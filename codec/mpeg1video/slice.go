package mpeg1video

// dcPredReset is the DC predictor value every slice start and every
// non-intra macroblock resets to: the neutral mid-grey sample value, per
// ISO 11172-2 §7.2.1. decodeBlock scales it into coefficient units (x8)
// when placing the reconstructed DC term.
const dcPredReset = 128

// decodeSlice parses one slice_start_code unit: the slice header plus its
// run of macroblocks, per ISO 11172-2 §2.4.3.4/§2.4.3.5.
func (d *Decoder) decodeSlice(code int) {
	row := code - scSliceMin
	d.mbRow = row
	d.mbAddr = row*d.mbWidth - 1

	d.dcPred[0], d.dcPred[1], d.dcPred[2] = dcPredReset, dcPredReset, dcPredReset
	d.fwdMotion.h, d.fwdMotion.v = 0, 0
	d.bwdMotion.h, d.bwdMotion.v = 0, 0
	d.fwdMotion.present, d.bwdMotion.present = false, false

	d.quantScale = int(d.buf.Read(5))
	for d.buf.Read(1) == 1 { // extra_bit_slice / extra_information_slice
		d.buf.Skip(8)
	}

	for {
		inc, ok := d.readMBAddressIncrement()
		if !ok {
			return
		}
		for i := 0; i < inc-1; i++ {
			d.mbAddr++
			if d.mbAddr >= d.mbWidth*d.mbHeight {
				return
			}
			d.mbRow, d.mbCol = d.mbAddr/d.mbWidth, d.mbAddr%d.mbWidth
			d.decodeSkippedMB()
		}
		d.mbAddr++
		if d.mbAddr >= d.mbWidth*d.mbHeight {
			return
		}
		d.mbRow, d.mbCol = d.mbAddr/d.mbWidth, d.mbAddr%d.mbWidth
		d.decodeMacroblock()

		if !d.buf.PeekNonzero(23) {
			return // upcoming start code: end of slice
		}
	}
}

// readMBAddressIncrement folds macroblock_escape prefixes and skips the
// macroblock_stuffing symbol, returning the total address increment of
// the next coded macroblock.
func (d *Decoder) readMBAddressIncrement() (int, bool) {
	total := 0
	for {
		v, ok := d.buf.ReadVLC(mbAddrIncrementVLC)
		if !ok {
			return 0, false
		}
		switch v {
		case mbAddrEscape:
			total += 33
		case mbAddrStuffing:
			// no-op
		default:
			total += int(v)
			return total, true
		}
	}
}
