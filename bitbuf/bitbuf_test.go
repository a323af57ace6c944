package bitbuf

import (
	"errors"
	"testing"
)

// binToSlice converts a string of binary into a byte slice, e.g.
// "0100 0001 1000 1100" => {0x41,0x8c}. Spaces are ignored. Follows
// github.com/ausocean/av/codec/h264/h264dec.binToSlice.
func binToSlice(s string) ([]byte, error) {
	var a byte = 0x80
	var cur byte
	var out []byte
	for i, c := range s {
		switch c {
		case ' ':
			continue
		case '1':
			cur |= a
		case '0':
		default:
			return nil, errors.New("invalid binary string")
		}
		a >>= 1
		if a == 0 || i == len(s)-1 {
			out = append(out, cur)
			cur = 0
			a = 0x80
		}
	}
	return out, nil
}

func TestReadBits(t *testing.T) {
	tests := []struct {
		in   string
		n    []int
		want []uint32
	}{
		{in: "10001111 11100011", n: []int{4, 2, 4, 6}, want: []uint32{0x8, 0x3, 0xf, 0x23}},
		{in: "11111111", n: []int{1, 1, 1, 1, 1, 1, 1, 1}, want: []uint32{1, 1, 1, 1, 1, 1, 1, 1}},
	}
	for i, test := range tests {
		b, err := binToSlice(test.in)
		if err != nil {
			t.Fatalf("test %d: binToSlice error: %v", i, err)
		}
		buf := FromBytes(b)
		for j, n := range test.n {
			got := buf.Read(n)
			if got != test.want[j] {
				t.Errorf("test %d read %d: got %#x want %#x", i, j, got, test.want[j])
			}
		}
	}
}

func TestReadUnderflowReturnsZeroWithoutAdvancing(t *testing.T) {
	buf := FromBytes([]byte{0xff})
	buf.Read(8)
	before := buf.Tell()
	got := buf.Read(4)
	if got != 0 {
		t.Errorf("got %d, want 0 on underflow", got)
	}
	if buf.Tell() != before {
		t.Errorf("cursor advanced on underflow: before %d after %d", before, buf.Tell())
	}
}

func TestSkipBytesStripsStuffing(t *testing.T) {
	buf := FromBytes([]byte{0xff, 0xff, 0xff, 0x12})
	n := buf.SkipBytes(0xff)
	if n != 3 {
		t.Fatalf("got %d stuffing bytes, want 3", n)
	}
	if got := buf.Read(8); got != 0x12 {
		t.Errorf("got %#x after stuffing, want 0x12", got)
	}
}

func TestPeekNonzero(t *testing.T) {
	buf := FromBytes([]byte{0x00, 0x80})
	if buf.PeekNonzero(8) {
		t.Error("expected false over all-zero byte")
	}
	if buf.Tell() != 0 {
		t.Error("peek must not advance cursor")
	}
	buf.Skip(8)
	if !buf.PeekNonzero(8) {
		t.Error("expected true over 0x80 byte")
	}
}

// TestStartCodeScan verifies property 2 of the spec: for any byte sequence
// S and any byte c, inserting 00 00 01 c at position p and calling
// FindStartCode(c) returns c and leaves the next read at byte index p+4,
// just past the code byte at p+3.
func TestStartCodeScan(t *testing.T) {
	for _, p := range []int{0, 1, 5, 17} {
		for _, c := range []int{0x00, 0xB3, 0xE0, 0xFF} {
			s := make([]byte, p)
			for i := range s {
				s[i] = byte(i + 1)
			}
			s = append(s, 0x00, 0x00, 0x01, byte(c))
			s = append(s, 0xAA, 0xBB)

			buf := FromBytes(s)
			got := buf.FindStartCode(c)
			if got != c {
				t.Fatalf("p=%d c=%#x: FindStartCode returned %#x", p, c, got)
			}
			if buf.Tell() != p+4 {
				t.Errorf("p=%d c=%#x: Tell()=%d want %d", p, c, buf.Tell(), p+4)
			}
		}
	}
}

func TestFindStartCodeNotPresentReturnsInvalid(t *testing.T) {
	buf := FromBytes([]byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x01, 0xB3})
	if got := buf.FindStartCode(0xE0); got != InvalidStartCode {
		t.Errorf("got %d, want InvalidStartCode", got)
	}
}

func TestHasStartCodeDoesNotAdvance(t *testing.T) {
	buf := FromBytes([]byte{0xAA, 0x00, 0x00, 0x01, 0xB3, 0xCC})
	if !buf.HasStartCode(0xB3) {
		t.Fatal("expected start code to be found")
	}
	if buf.Tell() != 0 {
		t.Errorf("HasStartCode must not advance cursor, got Tell()=%d", buf.Tell())
	}
}

func TestVLCRoundTrip(t *testing.T) {
	// A toy table: "0" -> 1 (1 bit), "10" -> 2 (2 bits), "11" -> 3 (2 bits).
	tbl := VLCTable{
		{Next: 1, Value: 0}, // state 0: bit decides 1 or 2
		{Next: 0, Value: 1}, // state 1 (bit=0): leaf value 1
		{Next: 3, Value: 0}, // state 2 (bit=1): another branch
		{Next: 0, Value: 2}, // state 3 (bit=0): leaf value 2
		{Next: 0, Value: 3}, // state 4 (bit=1): leaf value 3
	}

	tests := []struct {
		bits string
		want int32
	}{
		{"0", 1},
		{"10", 2},
		{"11", 3},
	}
	for _, test := range tests {
		b, err := binToSlice(test.bits + "000000")
		if err != nil {
			t.Fatal(err)
		}
		buf := FromBytes(b)
		got, ok := buf.ReadVLC(tbl)
		if !ok {
			t.Fatalf("bits=%s: decode failed", test.bits)
		}
		if got != test.want {
			t.Errorf("bits=%s: got %d want %d", test.bits, got, test.want)
		}
		if buf.bitPos < len(test.bits) {
			t.Errorf("bits=%s: consumed too few bits", test.bits)
		}
	}
}

func TestRingModeDiscard(t *testing.T) {
	buf := NewRing()
	buf.Write([]byte{0x01, 0x02, 0x03, 0x04})
	buf.Read(16) // consume first two bytes
	buf.DiscardReadBytes()
	if buf.Tell() != 0 {
		t.Errorf("Tell() after discard = %d, want 0", buf.Tell())
	}
	if got := buf.Read(8); got != 0x03 {
		t.Errorf("got %#x after discard, want 0x03", got)
	}
	buf.DiscardReadBytes() // idempotent when nothing new consumed beyond
}

func TestRewindIdempotent(t *testing.T) {
	buf := FromBytes([]byte{0xAA, 0xBB, 0xCC})
	first := buf.Read(8)
	buf.Read(8)
	if err := buf.Rewind(); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if buf.HasEnded() {
		t.Error("HasEnded should be false immediately after rewind")
	}
	second := buf.Read(8)
	if first != second {
		t.Errorf("rewind did not reproduce first byte: %#x vs %#x", first, second)
	}
}

func TestFixedMemoryWriteForbidden(t *testing.T) {
	buf := FromBytes([]byte{0x01})
	if _, err := buf.Write([]byte{0x02}); err == nil {
		t.Error("expected error writing to fixed-memory buffer")
	}
}
