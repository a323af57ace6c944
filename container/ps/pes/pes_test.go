package pes

import (
	"testing"

	"github.com/deepcodec/mpeg1ps/bitbuf"
)

// bitWriter accumulates individual fields MSB-first into a byte slice.
type bitWriter struct {
	bits []bool
}

func (w *bitWriter) write(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bits = append(w.bits, v&(1<<uint(i)) != 0)
	}
}

func (w *bitWriter) bytes() []byte {
	for len(w.bits)%8 != 0 {
		w.bits = append(w.bits, false)
	}
	out := make([]byte, len(w.bits)/8)
	for i, b := range w.bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// encodeTimestamp writes the 33-bit PTS/DTS value exactly as readTimestamp
// expects to consume it, NOT including the 2-bit PTS/DTS type flag (the
// caller writes that separately).
func encodeTimestamp(w *bitWriter, ts uint64) {
	w.write(0b00, 2) // 2 fixed bits completing the leading nibble
	w.write(ts>>30, 3)
	w.write(1, 1) // marker_bit
	w.write((ts>>15)&0x7FFF, 15)
	w.write(1, 1)
	w.write(ts&0x7FFF, 15)
	w.write(1, 1)
}

func TestDecodeNoPTS(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	w := &bitWriter{}
	w.write(uint64(len(payload)+1), 16) // length: payload + 1 for this branch
	w.write(0b00, 2)                    // PTS/DTS flag: none
	w.write(0xF, 4)                     // 4 skipped bits
	// pad to a byte boundary, then the payload
	for len(w.bits)%8 != 0 {
		w.bits = append(w.bits, false)
	}
	data := append(w.bytes(), payload...)

	b := bitbuf.FromBytes(data)
	pkt, ok := Decode(b, VideoSID)
	if !ok {
		t.Fatal("Decode failed on a well-formed no-PTS packet")
	}
	if pkt.HasPTS {
		t.Error("HasPTS = true, want false")
	}
	if string(pkt.Data) != string(payload) {
		t.Errorf("Data = %v, want %v", pkt.Data, payload)
	}
}

func TestDecodePTSOnly(t *testing.T) {
	payload := []byte{9, 8, 7}
	const ts = uint64(5400000) // 60 seconds at 90kHz
	w := &bitWriter{}
	w.write(uint64(len(payload)+5), 16)
	w.write(0b10, 2)
	encodeTimestamp(w, ts)
	data := append(w.bytes(), payload...)

	b := bitbuf.FromBytes(data)
	pkt, ok := Decode(b, AudioSIDMin)
	if !ok {
		t.Fatal("Decode failed on a well-formed PTS-only packet")
	}
	if !pkt.HasPTS {
		t.Fatal("HasPTS = false, want true")
	}
	wantSeconds := float64(ts) / 90000.0
	if pkt.PTS != wantSeconds {
		t.Errorf("PTS = %v, want %v", pkt.PTS, wantSeconds)
	}
	if string(pkt.Data) != string(payload) {
		t.Errorf("Data = %v, want %v", pkt.Data, payload)
	}
}

func TestDecodePTSAndDTS(t *testing.T) {
	payload := []byte{0xAA, 0xBB}
	const pts = uint64(900000) // 10 seconds
	const dts = uint64(810000) // 9 seconds
	w := &bitWriter{}
	w.write(uint64(len(payload)+10), 16)
	w.write(0b11, 2)
	encodeTimestamp(w, pts)
	// DTS: full 4-bit prefix '0001' + the same 3/15/15 marker-bit layout,
	// all of which Decode skips wholesale (40 bits total).
	w.write(0b0001, 4)
	w.write(dts>>30, 3)
	w.write(1, 1)
	w.write((dts>>15)&0x7FFF, 15)
	w.write(1, 1)
	w.write(dts&0x7FFF, 15)
	w.write(1, 1)
	data := append(w.bytes(), payload...)

	b := bitbuf.FromBytes(data)
	pkt, ok := Decode(b, PrivateStream1SID)
	if !ok {
		t.Fatal("Decode failed on a well-formed PTS+DTS packet")
	}
	if !pkt.HasPTS {
		t.Fatal("HasPTS = false, want true")
	}
	if pkt.PTS != float64(pts)/90000.0 {
		t.Errorf("PTS = %v, want %v", pkt.PTS, float64(pts)/90000.0)
	}
	if string(pkt.Data) != string(payload) {
		t.Errorf("Data = %v, want %v", pkt.Data, payload)
	}
}

func TestDecodeStuffingBytes(t *testing.T) {
	payload := []byte{0x42}
	stuffing := 3
	w := &bitWriter{}
	w.write(uint64(len(payload)+1+stuffing), 16)
	for i := 0; i < stuffing; i++ {
		w.write(0xFF, 8)
	}
	w.write(0b00, 2)
	w.write(0xF, 4)
	for len(w.bits)%8 != 0 {
		w.bits = append(w.bits, false)
	}
	data := append(w.bytes(), payload...)

	b := bitbuf.FromBytes(data)
	pkt, ok := Decode(b, VideoSID)
	if !ok {
		t.Fatal("Decode failed on a packet with stuffing bytes")
	}
	if string(pkt.Data) != string(payload) {
		t.Errorf("Data = %v, want %v", pkt.Data, payload)
	}
}

func TestIsVideoIsAudio(t *testing.T) {
	if !IsVideo(VideoSID) {
		t.Error("IsVideo(VideoSID) = false")
	}
	if IsVideo(AudioSIDMin) {
		t.Error("IsVideo(AudioSIDMin) = true")
	}
	if !IsAudio(AudioSIDMin) || !IsAudio(AudioSIDMax) {
		t.Error("IsAudio rejected a boundary audio stream id")
	}
	if IsAudio(PrivateStream1SID) {
		t.Error("IsAudio(PrivateStream1SID) = true, want false (it's classified separately)")
	}
}
