package mpeg1video

import (
	"github.com/deepcodec/mpeg1ps/bitbuf"
	"github.com/deepcodec/mpeg1ps/internal/xlog"
)

// Start codes relevant to the video elementary stream (ISO 11172-2 §2.4.3).
const (
	scPicture    = 0x00
	scSliceMin   = 0x01
	scSliceMax   = 0xAF
	scUserData   = 0xB2
	scSequence   = 0xB3
	scExtension  = 0xB5
	scSeqEnd     = 0xB7
	scGroupStart = 0xB8
)

type pictureType int

const (
	pictureI pictureType = 1
	pictureP pictureType = 2
	pictureB pictureType = 3
	pictureD pictureType = 4
)

// motionState is the per-direction motion state of §3: full-pixel flag,
// range-size, current vector in half-pel units, and whether this
// direction is present for the current macroblock.
type motionState struct {
	fullPel bool
	rSize   int // f_code - 1
	h, v    int32
	present bool
}

// Decoder decodes an MPEG-1 Part 2 video elementary stream one picture at
// a time. It is not safe for concurrent use.
type Decoder struct {
	buf *bitbuf.Buffer
	log *xlog.Logger

	hasHeader bool
	width     int
	height    int
	mbWidth   int
	mbHeight  int
	lumaW     int
	chromaW   int
	frameRate float64

	intraQuant    [64]uint8
	nonIntraQuant [64]uint8

	frames       [3]*Frame
	curIdx       int
	fwdIdx       int
	bwdIdx       int
	refAvailable bool
	eofFlushed   bool

	dcPred     [3]int32
	picType    pictureType
	mbAddr     int
	mbRow      int
	mbCol      int
	fwdMotion  motionState
	bwdMotion  motionState
	quantScale int

	// NoDelay replicates the "no_B_frames" mode of the spec's design
	// notes: emit the freshly decoded picture immediately instead of
	// deferring for correct B-picture reordering.
	NoDelay bool

	time     float64
	hasEnded bool
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithNoDelay enables the NoDelay (no_B_frames) low-latency mode.
func WithNoDelay() Option { return func(d *Decoder) { d.NoDelay = true } }

// WithLogger installs a structured logger; decoders log at Debug only.
func WithLogger(l *xlog.Logger) Option { return func(d *Decoder) { d.log = l } }

// NewDecoder returns a Decoder reading from buf.
func NewDecoder(buf *bitbuf.Buffer, opts ...Option) *Decoder {
	d := &Decoder{buf: buf, log: xlog.Nop()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// HasHeader reports whether a sequence header has been parsed.
func (d *Decoder) HasHeader() bool { return d.hasHeader }

// Width, Height, FrameRate report sequence-header geometry; zero before
// the first sequence header is seen.
func (d *Decoder) Width() int         { return d.width }
func (d *Decoder) Height() int        { return d.height }
func (d *Decoder) FrameRate() float64 { return d.frameRate }
func (d *Decoder) HasEnded() bool     { return d.hasEnded }
func (d *Decoder) Time() float64      { return d.time }
func (d *Decoder) SetTime(t float64)  { d.time = t }

// Decode returns the next frame in presentation order, or (nil, false) if
// no frame is available this call (underflow, a malformed unit that was
// dropped, or end of stream with nothing left to flush).
func (d *Decoder) Decode() (*Frame, bool) {
	for {
		code := d.buf.NextStartCode()
		if code == bitbuf.InvalidStartCode {
			return d.flush()
		}
		switch {
		case code == scSequence:
			if !d.decodeSequenceHeader() {
				continue
			}
		case code == scPicture:
			frame, ok := d.decodePicture()
			if ok {
				return frame, true
			}
		case code == scGroupStart, code == scUserData, code == scExtension, code == scSeqEnd:
			// Not part of the core picture/slice loop; skip.
			continue
		default:
			continue
		}
	}
}

func (d *Decoder) flush() (*Frame, bool) {
	if d.refAvailable && !d.eofFlushed {
		d.eofFlushed = true
		return d.frames[d.bwdIdx], true
	}
	d.hasEnded = true
	return nil, false
}

// decodeSequenceHeader parses ISO 11172-2 §2.4.3.2.
func (d *Decoder) decodeSequenceHeader() bool {
	b := d.buf
	width := int(b.Read(12))
	height := int(b.Read(12))
	if width == 0 || height == 0 {
		d.log.Debugf("mpeg1video: malformed sequence header (w=%d h=%d)", width, height)
		return false
	}
	b.Skip(4) // aspect ratio
	rateCode := b.Read(4)
	b.Skip(18) // bit_rate
	b.Skip(1)  // marker_bit
	b.Skip(10) // vbv_buffer_size
	b.Skip(1)  // constrained_parameters_flag

	d.intraQuant = defaultIntraQuant
	d.nonIntraQuant = defaultNonIntraQuant
	if b.Read(1) == 1 { // load_intra_quantizer_matrix
		for i := 0; i < 64; i++ {
			d.intraQuant[i] = uint8(b.Read(8))
		}
	}
	if b.Read(1) == 1 { // load_non_intra_quantizer_matrix
		for i := 0; i < 64; i++ {
			d.nonIntraQuant[i] = uint8(b.Read(8))
		}
	}

	d.width, d.height = width, height
	d.mbWidth = (width + 15) >> 4
	d.mbHeight = (height + 15) >> 4
	d.lumaW = d.mbWidth << 4
	d.chromaW = d.mbWidth << 3
	d.frameRate = pictureRate[rateCode&0xF]

	lumaH := d.mbHeight << 4
	chromaH := d.mbHeight << 3
	for i := range d.frames {
		d.frames[i] = newFrame(d.lumaW, lumaH, d.chromaW, chromaH, width, height)
	}
	d.curIdx, d.fwdIdx, d.bwdIdx = 0, 1, 2
	d.refAvailable = false
	d.eofFlushed = false
	d.hasHeader = true
	return true
}

// decodePicture parses the picture header, decodes its slices, and
// returns the frame to emit (if any) per the reordering rules of §4.4.
func (d *Decoder) decodePicture() (*Frame, bool) {
	if !d.hasHeader {
		return nil, false
	}
	b := d.buf
	b.Skip(10) // temporal_reference
	pt := pictureType(b.Read(3))
	b.Skip(16) // vbv_delay
	if pt != pictureI && pt != pictureP && pt != pictureB {
		d.log.Debugf("mpeg1video: rejecting picture type %d", pt)
		return nil, false
	}
	d.picType = pt

	if pt == pictureP || pt == pictureB {
		d.fwdMotion.fullPel = b.Read(1) == 1
		fcode := b.Read(3)
		if fcode == 0 {
			d.log.Debugf("mpeg1video: zero forward f_code, aborting picture")
			return nil, false
		}
		d.fwdMotion.rSize = int(fcode) - 1
	}
	if pt == pictureB {
		d.bwdMotion.fullPel = b.Read(1) == 1
		fcode := b.Read(3)
		if fcode == 0 {
			d.log.Debugf("mpeg1video: zero backward f_code, aborting picture")
			return nil, false
		}
		d.bwdMotion.rSize = int(fcode) - 1
	}

	var emitted *Frame
	oldFwdIdx := d.fwdIdx
	if pt == pictureI || pt == pictureP {
		d.fwdIdx = d.bwdIdx
	}

	// Skip extension/user-data start codes preceding the first slice.
	for {
		save := d.buf.Tell()
		code := d.buf.NextStartCode()
		if code == scUserData || code == scExtension {
			continue
		}
		// Not user data or an extension: rewind so decodeSlices sees it.
		d.buf.Seek(int64(save))
		break
	}

	d.decodeSlices()

	if pt == pictureI || pt == pictureP {
		d.bwdIdx = d.curIdx
		d.curIdx = oldFwdIdx
		if d.NoDelay {
			emitted = d.frames[d.bwdIdx]
		} else if d.refAvailable {
			emitted = d.frames[d.fwdIdx]
		}
		d.refAvailable = true
	} else { // B
		emitted = d.frames[d.curIdx]
	}

	if emitted != nil {
		emitted.PTS = d.time
	}
	return emitted, emitted != nil
}

// decodeSlices decodes slice_start_code units until the next non-slice
// start code, per §4.4.
func (d *Decoder) decodeSlices() {
	for {
		if !d.buf.Has(32) {
			return
		}
		save := d.buf.Tell()
		code := d.buf.NextStartCode()
		if code < scSliceMin || code > scSliceMax {
			// Not a slice: rewind so the caller's main loop sees it.
			if err := d.buf.Seek(int64(save)); err != nil {
				return
			}
			return
		}
		d.decodeSlice(code)
		if d.mbAddr >= d.mbWidth*d.mbHeight-1 {
			return
		}
	}
}
