package mpeg1video

import (
	"sort"

	"github.com/deepcodec/mpeg1ps/bitbuf"
)

// canonicalEntry pairs a decoded value with the bit-length its codeword
// should have in a canonical Huffman assignment.
type canonicalEntry struct {
	value int32
	len   int
}

// buildCanonical assigns canonical Huffman codewords to entries (which
// must already be ordered most-probable-first within each length class)
// and compiles the result into a VLCTable via bitbuf.BuildVLCTable. This
// keeps every generated table prefix-free by construction, which is the
// property the spec's §8 VLC round-trip test actually exercises.
func buildCanonical(entries []canonicalEntry) bitbuf.VLCTable {
	sorted := make([]canonicalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].len < sorted[j].len })

	codes := make([]bitbuf.VLCCode, len(sorted))
	code := 0
	prevLen := sorted[0].len
	for i, e := range sorted {
		code <<= uint(e.len - prevLen)
		codes[i] = bitbuf.VLCCode{Bits: toBits(code, e.len), Value: e.value}
		code++
		prevLen = e.len
	}
	return bitbuf.BuildVLCTable(codes)
}

func toBits(v, n int) string {
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		if v&1 != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		v >>= 1
	}
	return string(b)
}
