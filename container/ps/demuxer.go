// Package ps demuxes an MPEG-1 Program Stream into elementary-stream PES
// packets, the state-machine shape of
// github.com/ausocean/av/container/mts.Demux adapted from 188-byte
// transport packets to PS's pack-header/system-header/PES-in-stream
// framing.
package ps

import (
	"github.com/deepcodec/mpeg1ps/bitbuf"
	"github.com/deepcodec/mpeg1ps/container/ps/pes"
	"github.com/deepcodec/mpeg1ps/internal/xlog"
)

const (
	startPack    = 0xBA
	startSystem  = 0xBB
	startProgEnd = 0xB9
)

// StreamType selects which elementary stream Decode/Seek/GetStartTime/
// GetDuration operate on.
type StreamType int

const (
	StreamVideo StreamType = iota
	StreamAudio
)

func (t StreamType) matches(id byte) bool {
	switch t {
	case StreamVideo:
		return pes.IsVideo(id)
	case StreamAudio:
		return id == pes.PrivateStream1SID || pes.IsAudio(id)
	}
	return false
}

// Packet is one decoded elementary-stream packet: its Data is a view into
// the demuxer's buffer, valid only until the next Decode call.
type Packet struct {
	Type   StreamType
	PTS    float64
	HasPTS bool
	Data   []byte
}

// Demuxer reads pack/system headers once, then serves PES packets from a
// Program Stream.
type Demuxer struct {
	buf *bitbuf.Buffer
	log *xlog.Logger

	hasPackHeader   bool
	hasSystemHeader bool
	hasHeaders      bool
	numAudioStreams int
	numVideoStreams int

	lastPTS      [2]float64
	lastPTSKnown [2]bool

	fileSize int64
	hasEnded bool

	durationKnown    [2]bool
	duration         [2]float64
	durationFileSize int64
}

type Option func(*Demuxer)

func WithLogger(l *xlog.Logger) Option { return func(d *Demuxer) { d.log = l } }

// NewDemuxer wraps buf, whose source must support Seek for Seek/
// GetDuration to work (ModeMemory or ModeFile).
func NewDemuxer(buf *bitbuf.Buffer, opts ...Option) *Demuxer {
	d := &Demuxer{buf: buf, log: xlog.Nop(), fileSize: buf.Size()}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Demuxer) HasHeaders() bool     { return d.hasHeaders }
func (d *Demuxer) NumAudioStreams() int { return d.numAudioStreams }
func (d *Demuxer) NumVideoStreams() int { return d.numVideoStreams }
func (d *Demuxer) HasEnded() bool       { return d.hasEnded }

// ensureHeaders parses the pack header and system header exactly once, the
// way spec.md §4.2 items 1-2 describe; subsequent calls are no-ops.
func (d *Demuxer) ensureHeaders() {
	if d.hasHeaders {
		return
	}
	d.parsePackHeader()
	d.parseSystemHeader()
	d.hasHeaders = true
}

// parsePackHeader scans for the 0xBA pack-header start code and consumes
// its fixed fields (spec.md §4.2 item 1). Used only for the initial header
// pass; mid-stream repeats are parsed in place by parsePackHeaderFields via
// Decode's own NextStartCode scan.
func (d *Demuxer) parsePackHeader() {
	if !d.buf.HasStartCode(startPack) {
		return
	}
	if code := d.buf.FindStartCode(startPack); code != startPack {
		return
	}
	d.parsePackHeaderFields()
}

// parsePackHeaderFields consumes the pack header's fixed fields, cursor
// already positioned just after its 0xBA id byte. The SCR value itself
// isn't needed downstream (PES PTS values are authoritative), so it's read
// only to advance the cursor correctly.
func (d *Demuxer) parsePackHeaderFields() {
	d.hasPackHeader = true

	if marker := d.buf.Read(4); marker != 0b0010 {
		d.log.Debugf("mp2ps: unexpected pack header marker bits %04b", marker)
	}
	d.buf.Skip(3) // SCR[32..30]
	d.buf.Skip(1) // marker_bit
	d.buf.Skip(15)
	d.buf.Skip(1)
	d.buf.Skip(15)
	d.buf.Skip(1)
	d.buf.Skip(9) // SCR extension + marker bit, not used downstream
	d.buf.Skip(22)
	d.buf.Skip(1) // marker_bit
}

// parseSystemHeader scans for the 0xBB system-header start code and reads
// the audio/video stream counts (spec.md §4.2 item 2). Used only for the
// initial header pass.
func (d *Demuxer) parseSystemHeader() {
	if !d.buf.HasStartCode(startSystem) {
		return
	}
	if code := d.buf.FindStartCode(startSystem); code != startSystem {
		return
	}
	d.parseSystemHeaderFields()
}

// parseSystemHeaderFields reads the system header's fields, cursor already
// positioned just after its 0xBB id byte.
func (d *Demuxer) parseSystemHeaderFields() {
	d.hasSystemHeader = true

	headerLen := d.buf.Read(16)
	end := d.buf.Tell() + int(headerLen)
	d.buf.Skip(1)  // marker_bit
	d.buf.Skip(22) // rate_bound
	d.buf.Skip(1)  // marker_bit
	d.numAudioStreams = int(d.buf.Read(6))
	d.buf.Skip(5) // fixed_flag, CSPS_flag, system_audio_lock_flag, system_video_lock_flag, marker_bit
	d.numVideoStreams = int(d.buf.Read(5))
	if cur := d.buf.Tell(); cur < end {
		d.buf.Skip((end - cur) * 8)
	}
}

// Decode returns the next PES packet belonging to one of the recognized
// elementary-stream classes (video 0xE0, PrivateStream1 0xBD, audio
// 0xC0-0xC4), or ok=false at end of stream (spec.md §4.2 item 3 + "PES
// decode").
func (d *Demuxer) Decode() (*Packet, bool) {
	d.ensureHeaders()
	for {
		code := d.buf.NextStartCode()
		if code == bitbuf.InvalidStartCode {
			d.hasEnded = true
			return nil, false
		}
		switch code {
		case startProgEnd:
			d.hasEnded = true
			return nil, false
		case startPack:
			d.parsePackHeaderFields()
			continue
		case startSystem:
			d.parseSystemHeaderFields()
			continue
		}

		id := byte(code)
		var typ StreamType
		switch {
		case StreamVideo.matches(id):
			typ = StreamVideo
		case StreamAudio.matches(id):
			typ = StreamAudio
		default:
			continue
		}
		// NextStartCode already consumed the 00 00 01 id prefix; the
		// cursor sits at packet_length, which is where pes.Decode starts.
		pkt, ok := pes.Decode(d.buf, id)
		if !ok {
			d.hasEnded = true
			return nil, false
		}
		if pkt.HasPTS {
			d.lastPTS[typ] = pkt.PTS
			d.lastPTSKnown[typ] = true
		}
		return &Packet{Type: typ, PTS: pkt.PTS, HasPTS: pkt.HasPTS, Data: pkt.Data}, true
	}
}

// Rewind returns the cursor to the start of the stream without re-reading
// the pack/system headers (they're parsed once per Demuxer lifetime).
func (d *Demuxer) Rewind() error {
	if err := d.buf.Rewind(); err != nil {
		return err
	}
	d.hasEnded = false
	return nil
}

// GetStartTime rewinds, decodes until a Packet of typ carries a valid PTS,
// then restores the cursor (spec.md §4.2 "get_start_time").
func (d *Demuxer) GetStartTime(typ StreamType) (float64, bool) {
	save := d.buf.Tell()
	savedEnded := d.hasEnded
	defer func() {
		d.buf.Seek(int64(save))
		d.hasEnded = savedEnded
	}()

	if err := d.Rewind(); err != nil {
		return 0, false
	}
	for {
		pkt, ok := d.Decode()
		if !ok {
			return 0, false
		}
		if pkt.Type == typ && pkt.HasPTS {
			return pkt.PTS, true
		}
	}
}

const (
	durationInitialWindow = 64 * 1024
	durationMaxWindow     = 4 * 1024 * 1024
)

// GetDuration scans a tail window ending at EOF for the last valid PTS of
// typ, doubling the window (durationInitialWindow up to durationMaxWindow)
// until one turns up, and caches the
// result against the current file size (spec.md §4.2 "get_duration").
func (d *Demuxer) GetDuration(typ StreamType) (float64, bool) {
	if d.durationKnown[typ] && d.durationFileSize == d.fileSize {
		return d.duration[typ], true
	}

	start, ok := d.GetStartTime(typ)
	if !ok {
		return 0, false
	}

	save := d.buf.Tell()
	savedEnded := d.hasEnded
	defer func() {
		d.buf.Seek(int64(save))
		d.hasEnded = savedEnded
	}()

	for window := int64(durationInitialWindow); ; window *= 2 {
		pos := d.fileSize - window
		if pos < 0 {
			pos = 0
		}
		if err := d.buf.Seek(pos); err != nil {
			return 0, false
		}
		d.hasEnded = false
		if pos > 0 {
			d.buf.NextStartCode() // resync onto a start code inside the window
		}

		var last float64
		found := false
		for {
			pkt, ok := d.Decode()
			if !ok {
				break
			}
			if pkt.Type == typ && pkt.HasPTS {
				last, found = pkt.PTS, true
			}
		}

		if found {
			dur := last - start
			d.duration[typ] = dur
			d.durationKnown[typ] = true
			d.durationFileSize = d.fileSize
			return dur, true
		}
		if pos == 0 || window >= durationMaxWindow {
			return 0, false
		}
	}
}

const seekMaxRounds = 32

// Seek performs a binary-probe search for a packet of type typ at or
// before target seconds, returning the packet and true on success
// (spec.md §4.2 "seek"). When forceIntra is set, candidate video packets
// whose payload doesn't open on an intra-coded picture are rejected.
func (d *Demuxer) Seek(target float64, typ StreamType, forceIntra bool) (*Packet, bool) {
	startTime, ok := d.GetStartTime(typ)
	if !ok {
		return nil, false
	}
	duration, ok := d.GetDuration(typ)
	if !ok || duration <= 0 {
		return nil, false
	}
	byterate := float64(d.fileSize) / duration

	curPos := int64(0)
	curTime := startTime
	span := duration / 2
	if span <= 0 {
		span = 1
	}

	var best *Packet
	bestKnown := false
	foundPacketWithPTS := false

	for round := 0; round < seekMaxRounds; round++ {
		seekPos := curPos + int64((target-curTime-span)*byterate)
		if seekPos < 0 {
			seekPos = 0
		}
		if seekPos > d.fileSize {
			seekPos = d.fileSize
		}
		if err := d.buf.Seek(seekPos); err != nil {
			break
		}
		d.hasEnded = false
		if seekPos > 0 {
			d.buf.NextStartCode()
		}

		var roundCandidate *Packet
		roundCandidateTime := 0.0
		roundCandidateFound := false
		var overshoot *Packet
		overshootFound := false

		for {
			pkt, ok := d.Decode()
			if !ok {
				break
			}
			if pkt.Type != typ || !pkt.HasPTS {
				continue
			}
			if forceIntra && typ == StreamVideo && !containsIntraPicture(pkt.Data) {
				continue
			}
			// Retained to mirror a known quirk of the reference decoder
			// this algorithm is modeled on: set but never consulted.
			foundPacketWithPTS = true

			if pkt.PTS <= target {
				roundCandidate = pkt
				roundCandidateTime = pkt.PTS
				roundCandidateFound = true
				continue
			}
			overshoot = pkt
			overshootFound = true
			break
		}

		if roundCandidateFound {
			best = roundCandidate
			bestKnown = true
			if target-roundCandidateTime < span {
				return best, true
			}
			curPos = seekPos
			curTime = roundCandidateTime
			span /= 2
			continue
		}

		if overshootFound && overshoot.PTS > curTime {
			byterate = float64(seekPos-curPos) / (overshoot.PTS - curTime)
		}
		span *= 2
	}

	if false && foundPacketWithPTS {
		// Unreachable: mirrors a dead early-return branch in the
		// reference decoder this algorithm is ported from.
		return best, true
	}
	return best, bestKnown
}

// containsIntraPicture reports whether data contains an MPEG-1 picture
// start code (00 00 01 00) followed by a picture_coding_type of Intra,
// encoded in bits 3-5 of the byte that follows the first byte after the
// start code (spec.md §4.2 "seek").
func containsIntraPicture(data []byte) bool {
	for i := 0; i+6 <= len(data); i++ {
		if data[i] == 0x00 && data[i+1] == 0x00 && data[i+2] == 0x01 && data[i+3] == 0x00 {
			if data[i+5]&0x38 == 0x08 {
				return true
			}
		}
	}
	return false
}
