package mp2audio

import "github.com/deepcodec/mpeg1ps/bitbuf"

// mode is the channel mode field of the Layer II frame header.
type mode int

const (
	modeStereo mode = iota
	modeJointStereo
	modeDualChannel
	modeMono
)

// header holds the fields of one parsed Layer II frame header, used both to
// drive the current frame's decode and as the "previous header" the spec's
// resync rule compares against.
type header struct {
	bitRateIndex int
	bitRateKbps  int
	sampleRate   int
	mode         mode
	modeExt      int
	padding      bool
	crc          bool
	bound        int // first subband index decoded as shared between channels
	sblimit      int
	allocClass   allocTableClass
	frameSize    int // bytes that follow the 4 (or 6 with CRC) header bytes; the header itself is not counted
}

// findSync scans forward from the cursor for the 11-bit frame sync pattern
// (FF Fx, x&0xFE==0xFC) byte-aligned, the way the spec's header-parse step
// describes; returns false if the buffer runs out first.
func findSync(b *bitbuf.Buffer) bool {
	for b.Has(16) {
		save := b.Tell()
		first := b.Read(8)
		second := b.Read(8)
		if first == 0xFF && second&0xFE == 0xFC {
			if err := b.Seek(int64(save)); err != nil {
				return false
			}
			return true
		}
		if err := b.Seek(int64(save) + 1); err != nil {
			return false
		}
	}
	return false
}

// parseHeader reads one Layer II frame header at the cursor. prev, if
// non-nil, must match bitrate/samplerate/mode or the header is rejected (a
// resync, per spec.md §4.3's "otherwise resync" rule); pass nil to accept
// any well-formed header.
func parseHeader(b *bitbuf.Buffer, prev *header) (header, bool) {
	if !b.Has(32) {
		return header{}, false
	}
	start := b.Tell()

	sync := b.Read(11)
	if sync != 0x7FF {
		b.Seek(int64(start) + 1)
		return header{}, false
	}
	version := b.Read(2)
	layer := b.Read(2)
	crc := b.Read(1) == 0 // protection_bit: 0 means CRC is present
	if version != 0b11 || layer != 0b10 {
		b.Seek(int64(start) + 1)
		return header{}, false
	}

	bitRateIdx := int(b.Read(4))
	sampleRateIdx := int(b.Read(2))
	padding := b.Read(1) == 1
	b.Skip(1) // private_bit, unused
	modeVal := mode(b.Read(2))
	modeExt := 0
	if modeVal == modeJointStereo {
		modeExt = int(b.Read(2))
	} else {
		b.Skip(2)
	}
	b.Skip(4) // copyright, original, emphasis (2 bits)
	if crc {
		b.Skip(16)
	}

	if bitRateIdx == 0 || bitRateIdx == 0xF || sampleRateIdx == 0b11 {
		b.Seek(int64(start) + 1)
		return header{}, false
	}

	h := header{
		bitRateIndex: bitRateIdx,
		bitRateKbps:  bitRateTableV1[bitRateIdx],
		sampleRate:   sampleRateTable[sampleRateIdx],
		mode:         modeVal,
		modeExt:      modeExt,
		padding:      padding,
		crc:          crc,
	}

	if prev != nil {
		if h.bitRateIndex != prev.bitRateIndex || h.sampleRate != prev.sampleRate || h.mode != prev.mode {
			b.Seek(int64(start) + 1)
			return header{}, false
		}
	}

	headerBytes := 4
	if crc {
		headerBytes = 6
	}
	h.frameSize = (144000*h.bitRateKbps)/h.sampleRate + boolToInt(padding) - headerBytes

	switch h.mode {
	case modeJointStereo:
		h.bound = (h.modeExt + 1) * 4
	case modeMono:
		h.bound = 0
	default:
		h.bound = 32
	}

	stereo := h.mode != modeMono
	bitRatePerChannel := h.bitRateKbps
	if stereo {
		bitRatePerChannel /= 2
	}
	h.allocClass = selectAllocTable(stereo, bitRatePerChannel, h.sampleRate)
	h.sblimit = sblimitTable[h.allocClass]

	return h, true
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (m mode) channels() int {
	if m == modeMono {
		return 1
	}
	return 2
}
