package ps

import (
	"testing"

	"github.com/deepcodec/mpeg1ps/bitbuf"
	"github.com/deepcodec/mpeg1ps/container/ps/pes"
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

func startCode(id byte) []byte { return []byte{0x00, 0x00, 0x01, id} }

// packHeader builds a full pack_header (start code + the 72 fixed bits
// parsePackHeaderFields consumes; values other than the marker nibble are
// arbitrary since SCR/mux_rate aren't used downstream).
func packHeader() []byte {
	w := &bitWriter{}
	w.write(0b0010, 4)
	w.write(0, 3)
	w.write(1, 1)
	w.write(0, 15)
	w.write(1, 1)
	w.write(0, 15)
	w.write(1, 1)
	w.write(0, 9)
	w.write(1, 22)
	w.write(1, 1)
	return append(startCode(startPack), w.bytes()...)
}

// systemHeader builds a full system_header declaring numAudio audio streams
// and numVideo video streams, matching parseSystemHeaderFields's field
// order exactly (1+22+1+6+5+5 = 40 bits = 5 bytes body, so header_length=5).
func systemHeader(numAudio, numVideo int) []byte {
	body := &bitWriter{}
	body.write(1, 1)                 // marker_bit
	body.write(0x3FFFFF, 22)         // rate_bound
	body.write(1, 1)                 // marker_bit
	body.write(uint64(numAudio), 6)  // audio_bound
	body.write(0x1F, 5)              // fixed/CSPS/locks/marker
	body.write(uint64(numVideo), 5)  // video_bound
	bodyBytes := body.bytes()

	w := &bitWriter{}
	w.write(uint64(len(bodyBytes)), 16)
	return append(append(startCode(startSystem), w.bytes()...), bodyBytes...)
}

// pesNoPTS builds a PES packet with no PTS/DTS present.
func pesNoPTS(id byte, payload []byte) []byte {
	w := &bitWriter{}
	w.write(uint64(len(payload)+1), 16)
	w.write(0b00, 2)
	w.write(0xF, 4)
	hdr := w.bytes()
	out := append(startCode(id), hdr...)
	return append(out, payload...)
}

// pesWithPTS builds a PES packet carrying a PTS-only header for ticks (a
// 90kHz clock value).
func pesWithPTS(id byte, ticks uint64, payload []byte) []byte {
	w := &bitWriter{}
	w.write(uint64(len(payload)+5), 16)
	w.write(0b10, 2)
	w.write(0b00, 2)
	w.write(ticks>>30, 3)
	w.write(1, 1)
	w.write((ticks>>15)&0x7FFF, 15)
	w.write(1, 1)
	w.write(ticks&0x7FFF, 15)
	w.write(1, 1)
	hdr := w.bytes()
	out := append(startCode(id), hdr...)
	return append(out, payload...)
}

func programEnd() []byte { return startCode(startProgEnd) }

func concatAll(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func TestDemuxerHeaders(t *testing.T) {
	data := concatAll(
		packHeader(),
		systemHeader(2, 1),
		pesNoPTS(pes.PrivateStream1SID, []byte{1, 2, 3}),
	)
	d := NewDemuxer(bitbuf.FromBytes(data))

	pkt, ok := d.Decode()
	if !ok {
		t.Fatal("Decode failed on the first packet after headers")
	}
	if !d.HasHeaders() {
		t.Error("HasHeaders() = false after Decode consumed the headers")
	}
	if d.NumAudioStreams() != 2 {
		t.Errorf("NumAudioStreams() = %d, want 2", d.NumAudioStreams())
	}
	if d.NumVideoStreams() != 1 {
		t.Errorf("NumVideoStreams() = %d, want 1", d.NumVideoStreams())
	}
	if pkt.Type != StreamAudio {
		t.Errorf("Type = %v, want StreamAudio (PrivateStream1 classifies as audio)", pkt.Type)
	}
	if string(pkt.Data) != "\x01\x02\x03" {
		t.Errorf("Data = %v, want [1 2 3]", pkt.Data)
	}
}

func TestDemuxerClassifiesVideoAndAudio(t *testing.T) {
	data := concatAll(
		packHeader(),
		systemHeader(1, 1),
		pesNoPTS(pes.VideoSID, []byte{0xAA}),
		pesNoPTS(pes.AudioSIDMin, []byte{0xBB}),
	)
	d := NewDemuxer(bitbuf.FromBytes(data))

	p1, ok := d.Decode()
	if !ok || p1.Type != StreamVideo {
		t.Fatalf("first packet: ok=%v type=%v, want StreamVideo", ok, p1)
	}
	p2, ok := d.Decode()
	if !ok || p2.Type != StreamAudio {
		t.Fatalf("second packet: ok=%v type=%v, want StreamAudio", ok, p2)
	}
	if _, ok := d.Decode(); ok {
		t.Error("Decode succeeded past the last packet, want ok=false")
	}
	if !d.HasEnded() {
		t.Error("HasEnded() = false after exhausting the stream")
	}
}

func TestDemuxerStopsAtProgramEnd(t *testing.T) {
	data := concatAll(
		packHeader(),
		systemHeader(0, 1),
		pesNoPTS(pes.VideoSID, []byte{1}),
		programEnd(),
		pesNoPTS(pes.VideoSID, []byte{2}), // must never be reached
	)
	d := NewDemuxer(bitbuf.FromBytes(data))

	if _, ok := d.Decode(); !ok {
		t.Fatal("Decode failed on the packet before program_end")
	}
	if _, ok := d.Decode(); ok {
		t.Error("Decode returned a packet past program_end")
	}
	if !d.HasEnded() {
		t.Error("HasEnded() = false after program_end")
	}
}

func TestDemuxerPTSAndGetStartTime(t *testing.T) {
	const ticks = uint64(2700000) // 30 seconds at 90kHz
	data := concatAll(
		packHeader(),
		systemHeader(1, 0),
		pesWithPTS(pes.AudioSIDMin, ticks, []byte{1, 2}),
	)
	d := NewDemuxer(bitbuf.FromBytes(data))

	start, ok := d.GetStartTime(StreamAudio)
	if !ok {
		t.Fatal("GetStartTime failed")
	}
	want := float64(ticks) / 90000.0
	if start != want {
		t.Errorf("GetStartTime = %v, want %v", start, want)
	}

	// GetStartTime must restore the cursor: a subsequent Decode should see
	// the same first packet again, not EOF.
	pkt, ok := d.Decode()
	if !ok {
		t.Fatal("Decode after GetStartTime failed, cursor wasn't restored")
	}
	if pkt.PTS != want {
		t.Errorf("PTS after restore = %v, want %v", pkt.PTS, want)
	}
}

func TestDemuxerStreamTypeMatches(t *testing.T) {
	if !StreamVideo.matches(pes.VideoSID) {
		t.Error("StreamVideo doesn't match VideoSID")
	}
	if !StreamAudio.matches(pes.PrivateStream1SID) {
		t.Error("StreamAudio doesn't match PrivateStream1SID")
	}
	if !StreamAudio.matches(pes.AudioSIDMax) {
		t.Error("StreamAudio doesn't match AudioSIDMax")
	}
	if StreamAudio.matches(pes.VideoSID) {
		t.Error("StreamAudio matches VideoSID")
	}
}
