// Package mp2audio decodes MPEG-1 Layer II audio elementary streams into
// interleaved-free stereo sample blocks.
//
// The package shape follows github.com/ausocean/av/codec/pcm's
// Buffer/BufferFormat pairing, adapted from PCM's raw-byte container to the
// fixed-size float32 frame Layer II always produces (1152 samples/channel).
package mp2audio

// Samples is one decoded Layer II audio frame: 1152 samples per channel,
// normalized to [-1, 1], plus the presentation timestamp assigned by the
// caller (mirrors codec/mpeg1video.Frame.PTS).
type Samples struct {
	PTS         float64
	Left, Right [1152]float32
}
