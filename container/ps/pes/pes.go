// Package pes decodes MPEG-1 Program Stream PES packets.
//
// Unlike the MPEG-2 Transport Stream PES header that
// github.com/ausocean/av/container/mts/pes encodes (flags byte, PDI field,
// explicit HeaderLength), the MPEG-1 System Layer packet this package reads
// has no flags byte at all: after the 16-bit packet length, an optional
// P-STD buffer-bound field and the PTS/DTS block are each introduced by
// their own fixed marker bits, so the header is walked field-by-field
// straight off the bit cursor rather than sliced out of a byte buffer.
package pes

import (
	"github.com/deepcodec/mpeg1ps/bitbuf"
)

// Stream ID classes PS demuxing cares about (ISO/IEC 11172-1 §2.4.3.3).
const (
	VideoSID          = 0xE0 // video stream 0, MPEG-1 video
	PrivateStream1SID = 0xBD
	AudioSIDMin       = 0xC0
	AudioSIDMax       = 0xC4
	PackHeaderSID     = 0xBA
	SystemHeaderSID   = 0xBB
	ProgramEndSID     = 0xB9
)

// IsVideo reports whether id names the single MPEG-PS video stream.
func IsVideo(id byte) bool { return id == VideoSID }

// IsAudio reports whether id names an MPEG-PS audio stream.
func IsAudio(id byte) bool { return id >= AudioSIDMin && id <= AudioSIDMax }

// Packet is one decoded PES packet. Data is a copy, safe to keep past the
// next Decode call.
type Packet struct {
	StreamID byte
	PTS      float64
	HasPTS   bool
	Data     []byte
}

// Decode reads one PES packet's header and payload from b, whose cursor
// must sit immediately after the stream_id byte of a start code the caller
// has already classified as carrying a PES packet. It implements the
// MPEG-1 System Layer packet() syntax: 16-bit packet_length, 0xFF stuffing
// bytes, an optional P-STD buffer-bound field, then the PTS/DTS block.
func Decode(b *bitbuf.Buffer, streamID byte) (*Packet, bool) {
	if !b.Has(16) {
		return nil, false
	}
	length := int(b.Read(16))

	length -= b.SkipBytes(0xFF)

	if length >= 2 && b.Has(18) && b.PeekBits(2) == 0b01 {
		b.Skip(2)
		b.Skip(16)
		length -= 2
	}

	if length < 1 || !b.Has(8) {
		return nil, false
	}

	var pts float64
	var hasPTS bool
	switch b.Read(2) {
	case 0b10:
		if !b.Has(38) {
			return nil, false
		}
		pts = float64(readTimestamp(b)) / 90000.0
		hasPTS = true
		length -= 5
	case 0b11:
		if !b.Has(38 + 40) {
			return nil, false
		}
		pts = float64(readTimestamp(b)) / 90000.0
		hasPTS = true
		b.Skip(40) // DTS, unused: frame reordering comes from the video decoder's own B-frame window, not DTS
		length -= 10
	default:
		b.Skip(4)
		length -= 1
	}

	if length < 0 {
		return nil, false
	}
	// The no-PTS branch's 2+4 consumed bits don't reach a byte boundary on
	// their own (unlike the PTS/PTS+DTS branches, which always land on
	// one); align explicitly rather than special-case it.
	b.Align()
	data := b.ReadBytes(length)
	if data == nil {
		return nil, false
	}
	return &Packet{StreamID: streamID, PTS: pts, HasPTS: hasPTS, Data: data}, true
}

// readTimestamp reads the 33-bit PTS/DTS clock value: a 3/15/15-bit group
// split, each group followed by a marker_bit, preceded by the 2 fixed bits
// that complete the field's leading nibble (the PTS/DTS type bits having
// already been consumed by the caller).
func readTimestamp(b *bitbuf.Buffer) uint64 {
	b.Skip(2)
	hi := uint64(b.Read(3))
	b.Skip(1)
	mid := uint64(b.Read(15))
	b.Skip(1)
	lo := uint64(b.Read(15))
	b.Skip(1)
	return hi<<30 | mid<<15 | lo
}
