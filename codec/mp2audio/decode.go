package mp2audio

import (
	"github.com/deepcodec/mpeg1ps/bitbuf"
	"github.com/deepcodec/mpeg1ps/internal/xlog"
)

// subband holds the per-channel, per-subband decode state carried across
// the allocation / scale-factor-info / scale-factor / sample passes of one
// frame, mirroring the "2x32 grid of subband-blocks" the spec's audio
// decoder state calls for.
type subband struct {
	specIndex int // 0 = no bits allocated this frame
	sfInfo    uint8
	sf        [3]uint32 // one per scale-factor group (part)
}

// Decoder holds the running state of a Layer II decode: the most recent
// header (for resync comparison), the subband allocation grid, and the
// 32-band polyphase synthesis history.
type Decoder struct {
	buf *bitbuf.Buffer
	log *xlog.Logger

	hasHeader bool
	prev      header

	subbands [2][32]subband

	v    [2][1024]float64
	vPos [2]int

	time     float64
	hasEnded bool
}

// Option configures a Decoder at construction, mirroring
// codec/mpeg1video.Option.
type Option func(*Decoder)

func WithLogger(l *xlog.Logger) Option { return func(d *Decoder) { d.log = l } }

func NewDecoder(buf *bitbuf.Buffer, opts ...Option) *Decoder {
	d := &Decoder{buf: buf, log: xlog.Nop()}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Decoder) HasEnded() bool    { return d.hasEnded }
func (d *Decoder) Time() float64     { return d.time }
func (d *Decoder) SetTime(t float64) { d.time = t }

// Decode reads and decodes one Layer II frame, returning ok=false once the
// stream is exhausted or a header fails to parse (matching
// codec/mpeg1video.Decoder.Decode's "no frame ready, retry when more bytes
// arrive" contract).
func (d *Decoder) Decode() (*Samples, bool) {
	if !findSync(d.buf) {
		d.hasEnded = true
		return nil, false
	}

	var prevPtr *header
	if d.hasHeader {
		prevPtr = &d.prev
	}
	h, ok := parseHeader(d.buf, prevPtr)
	if !ok {
		return nil, false
	}
	d.prev = h
	d.hasHeader = true

	samples := d.decodeFrame(&h)
	samples.PTS = d.time
	d.buf.Align()
	return samples, true
}

func (d *Decoder) decodeFrame(h *header) *Samples {
	channels := h.mode.channels()

	for sb := 0; sb < 32; sb++ {
		for ch := 0; ch < 2; ch++ {
			d.subbands[ch][sb] = subband{}
		}
	}

	nbal := nbalTable[h.allocClass]

	// Step 1-2: bit allocation. Subbands below bound get independent
	// per-channel codes; bound..sblimit share one code between channels
	// (each channel keeps its own scale factors; the quantized samples are
	// read once and shared); sblimit..32 get nothing.
	for sb := 0; sb < h.sblimit; sb++ {
		if sb < h.bound {
			for ch := 0; ch < channels; ch++ {
				code := int(d.buf.Read(nbal[sb]))
				d.subbands[ch][sb].specIndex = allocCodeToQuantIndex(h.allocClass, sb, code)
			}
			if channels == 1 {
				d.subbands[1][sb].specIndex = d.subbands[0][sb].specIndex
			}
		} else {
			code := int(d.buf.Read(nbal[sb]))
			idx := allocCodeToQuantIndex(h.allocClass, sb, code)
			d.subbands[0][sb].specIndex = idx
			d.subbands[1][sb].specIndex = idx
		}
	}

	// Step 3: scale-factor select info, 2 bits per allocated subband per
	// channel (a shared-allocation subband still carries independent scale
	// factors per channel, only the bit allocation itself is shared).
	for sb := 0; sb < h.sblimit; sb++ {
		for ch := 0; ch < channels; ch++ {
			if d.subbands[ch][sb].specIndex == 0 {
				continue
			}
			d.subbands[ch][sb].sfInfo = uint8(d.buf.Read(2))
		}
	}

	// Step 4: scale factors, one to three 6-bit codes per sf pattern.
	for sb := 0; sb < h.sblimit; sb++ {
		for ch := 0; ch < channels; ch++ {
			sub := &d.subbands[ch][sb]
			if sub.specIndex == 0 {
				continue
			}
			readScaleFactors(d.buf, sub)
		}
	}

	out := &Samples{}
	outPos := 0

	// Step 5-6: 3 scale-factor groups (parts) x 4 granules x 3 sub-blocks.
	// Raw quantized codes for a shared (>=bound) subband are read once and
	// dequantized twice, against each channel's own scale factor.
	var fraction [2][32][3]float64
	for part := 0; part < 3; part++ {
		for granule := 0; granule < 4; granule++ {
			for sb := 0; sb < h.sblimit; sb++ {
				switch {
				case sb < h.bound:
					for ch := 0; ch < channels; ch++ {
						raw := readRawTriple(d.buf, d.subbands[ch][sb].specIndex)
						fraction[ch][sb] = dequantizeTriple(raw, d.subbands[ch][sb].specIndex, d.subbands[ch][sb].sf[part])
					}
					if channels == 1 {
						fraction[1][sb] = fraction[0][sb]
					}
				case d.subbands[0][sb].specIndex != 0:
					raw := readRawTriple(d.buf, d.subbands[0][sb].specIndex)
					fraction[0][sb] = dequantizeTriple(raw, d.subbands[0][sb].specIndex, d.subbands[0][sb].sf[part])
					fraction[1][sb] = dequantizeTriple(raw, d.subbands[1][sb].specIndex, d.subbands[1][sb].sf[part])
				}
			}

			for sub := 0; sub < 3; sub++ {
				var in [2][32]float64
				for ch := 0; ch < channels; ch++ {
					for sbi := 0; sbi < 32; sbi++ {
						in[ch][sbi] = fraction[ch][sbi][sub]
					}
				}
				if channels == 1 {
					in[1] = in[0]
				}
				d.synthesize(0, in[0], out, outPos)
				d.synthesize(1, in[1], out, outPos)
				outPos += 32
			}
		}
	}

	return out
}
