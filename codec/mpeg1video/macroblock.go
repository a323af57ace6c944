package mpeg1video

// decodeSkippedMB handles a not-coded macroblock implied by an
// macroblock_address_increment greater than one. Skipped macroblocks
// carry no residual: in P-pictures they are a zero-motion copy from the
// forward reference; in B-pictures ISO 11172-2 keeps the previous
// macroblock's motion vectors and prediction mode unchanged.
func (d *Decoder) decodeSkippedMB() {
	d.dcPred[0], d.dcPred[1], d.dcPred[2] = dcPredReset, dcPredReset, dcPredReset
	if d.picType == pictureP {
		d.fwdMotion.h, d.fwdMotion.v = 0, 0
		d.fwdMotion.present = true
		d.bwdMotion.present = false
	}
	d.predictMacroblock()
}

// decodeMacroblock parses one coded macroblock: its type, optional
// quantizer-scale update, motion vector(s) or intra reset, coded block
// pattern, and the six 8x8 blocks that pattern selects.
func (d *Decoder) decodeMacroblock() {
	mbType, ok := d.buf.ReadVLC(mbTypeVLC(d.picType))
	if !ok {
		return
	}
	mt := int(mbType)
	intra := mt&mbIntra != 0

	if mt&mbHasQuantizer != 0 {
		d.quantScale = int(d.buf.Read(5))
	}

	if intra {
		d.fwdMotion.h, d.fwdMotion.v = 0, 0
		d.bwdMotion.h, d.bwdMotion.v = 0, 0
		d.fwdMotion.present, d.bwdMotion.present = false, false
	} else {
		d.dcPred[0], d.dcPred[1], d.dcPred[2] = dcPredReset, dcPredReset, dcPredReset
		d.fwdMotion.present = mt&mbForward != 0
		d.bwdMotion.present = mt&mbBackward != 0
		if d.fwdMotion.present {
			d.decodeMotion(&d.fwdMotion)
		} else {
			d.fwdMotion.h, d.fwdMotion.v = 0, 0
		}
		if d.bwdMotion.present {
			d.decodeMotion(&d.bwdMotion)
		} else {
			d.bwdMotion.h, d.bwdMotion.v = 0, 0
		}
	}

	var cbp int
	switch {
	case mt&mbCodeBlockPattern != 0:
		v, ok := d.buf.ReadVLC(cbpVLC)
		if ok {
			cbp = int(v)
		}
	case intra:
		cbp = 0x3F
	default:
		cbp = 0
	}

	if !intra {
		d.predictMacroblock()
	}

	for block := 0; block < 6; block++ {
		if cbp&(0x20>>uint(block)) != 0 {
			d.decodeBlock(block, intra)
		}
	}
}
