package mpeg1video

// readMotionDelta decodes one motion vector component's residual per ISO
// 11172-2 §7.6.3.1: a short code selects a magnitude bucket, with rSize
// extra bits resolving the exact value inside that bucket when the
// f_code in use calls for a range wider than the code alone covers.
func (d *Decoder) readMotionDelta(rSize int) int32 {
	code, ok := d.buf.ReadVLC(motionCodeVLC)
	if !ok || code == 0 {
		return 0
	}
	fscale := int32(1) << uint(rSize)
	if fscale == 1 {
		return code
	}
	var bits int32
	if rSize > 0 {
		bits = int32(d.buf.Read(rSize))
	}
	mag := (abs32(code)-1)<<uint(rSize) + bits + 1
	if code < 0 {
		mag = -mag
	}
	return mag
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// rangeLimit wraps a motion vector component back into its legal range, as
// ISO 11172-2 requires after accumulating a delta onto the running
// prediction value.
func rangeLimit(v int32, rSize int) int32 {
	f := int32(1) << uint(rSize)
	low := -16 * f
	high := 16*f - 1
	switch {
	case v < low:
		return v + 32*f
	case v > high:
		return v - 32*f
	default:
		return v
	}
}

// decodeMotion reads the horizontal then vertical component of one motion
// vector and folds them onto the running per-direction prediction.
func (d *Decoder) decodeMotion(ms *motionState) {
	ms.h = rangeLimit(ms.h+d.readMotionDelta(ms.rSize), ms.rSize)
	ms.v = rangeLimit(ms.v+d.readMotionDelta(ms.rSize), ms.rSize)
}
