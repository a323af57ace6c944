// Package main implements mpeg1probe, a small diagnostic client for the
// mpeg1ps decoder core: it demuxes a Program Stream file, decodes its MP2
// audio track, and optionally dumps the result to a WAV file or prints a
// per-frame spectral/statistical summary. It plays the same "external
// glue around the core" role cmd/rv/main.go plays around the revid
// package: flag parsing, lumberjack-backed logging, then a decode loop.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/stat"

	"github.com/deepcodec/mpeg1ps/bitbuf"
	"github.com/deepcodec/mpeg1ps/codec/mp2audio"
	"github.com/deepcodec/mpeg1ps/codec/mpeg1video"
	"github.com/deepcodec/mpeg1ps/container/ps"
	"github.com/deepcodec/mpeg1ps/internal/xlog"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration, mirroring cmd/rv/main.go's constants.
const (
	logPath      = "mpeg1probe.log"
	logMaxSizeMB = 50
	logMaxBackup = 3
	logMaxAgeDay = 7
)

const pkg = "mpeg1probe: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	in := flag.String("in", "", "input Program Stream file")
	wavOut := flag.String("wav", "", "write decoded audio to this WAV file")
	showStats := flag.Bool("stats", false, "print summary statistics (mean/stddev of per-frame peak amplitude, PTS span)")
	showSpectrum := flag.Bool("spectrum", false, "print left-channel spectral peak per frame")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}
	if *in == "" {
		fmt.Fprintln(os.Stderr, pkg+"-in is required")
		os.Exit(2)
	}

	level := zapcore.InfoLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	log := xlog.New(xlog.Config{
		Filename:   logPath,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackup,
		MaxAgeDays: logMaxAgeDay,
		Level:      level,
	})

	log.Infof("starting mpeg1probe version=%s in=%s", version, *in)

	if err := run(*in, *wavOut, *showStats, *showSpectrum, log); err != nil {
		log.Errorf("mpeg1probe: %v", err)
		fmt.Fprintln(os.Stderr, pkg+err.Error())
		os.Exit(1)
	}
}

func run(in, wavOut string, showStats, showSpectrum bool, log *xlog.Logger) error {
	srcBuf, err := bitbuf.FromFile(in)
	if err != nil {
		return err
	}
	defer srcBuf.Close()

	demux := ps.NewDemuxer(srcBuf, ps.WithLogger(log))

	audioBuf := bitbuf.NewAppend()
	audioDec := mp2audio.NewDecoder(audioBuf, mp2audio.WithLogger(log))

	videoBuf := bitbuf.NewAppend()
	videoDec := mpeg1video.NewDecoder(videoBuf, mpeg1video.WithLogger(log))

	var frames []*mp2audio.Samples
	var ptsSeries, peakSeries []float64
	var pictures int

	for {
		pkt, ok := demux.Decode()
		if !ok {
			break
		}
		switch pkt.Type {
		case ps.StreamAudio:
			audioBuf.Write(pkt.Data)
			if pkt.HasPTS {
				audioDec.SetTime(pkt.PTS)
			}
			for {
				frame, ok := audioDec.Decode()
				if !ok {
					break
				}
				frames = append(frames, frame)

				if showStats {
					ptsSeries = append(ptsSeries, frame.PTS)
					peakSeries = append(peakSeries, peakAmplitude(frame))
				}
				if showSpectrum {
					spec := mp2audio.Spectrum(frame, 0)
					peakIdx, peakMag := peakBin(spec)
					fmt.Printf("pts=%.3f left-peak-bin=%d mag=%.3f\n", frame.PTS, peakIdx, peakMag)
				}
			}
		case ps.StreamVideo:
			videoBuf.Write(pkt.Data)
			if pkt.HasPTS {
				videoDec.SetTime(pkt.PTS)
			}
			for {
				if _, ok := videoDec.Decode(); !ok {
					break
				}
				pictures++
			}
		}
	}

	log.Infof("decoded %d audio frames, %d pictures, video=%d audio=%d streams",
		len(frames), pictures, demux.NumVideoStreams(), demux.NumAudioStreams())

	if showStats && len(peakSeries) > 0 {
		fmt.Printf("frames=%d mean-peak=%.4f stddev-peak=%.4f duration=%.3fs\n",
			len(peakSeries), stat.Mean(peakSeries, nil), stat.StdDev(peakSeries, nil),
			ptsSeries[len(ptsSeries)-1]-ptsSeries[0])
	}

	if wavOut != "" {
		f, err := os.Create(wavOut)
		if err != nil {
			return err
		}
		defer f.Close()
		sampleRate := 44100
		if err := mp2audio.DumpWAV(f, frames, sampleRate); err != nil {
			return err
		}
		log.Infof("wrote %s", wavOut)
	}

	return nil
}

func peakAmplitude(s *mp2audio.Samples) float64 {
	var peak float64
	for _, v := range s.Left {
		a := float64(v)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

func peakBin(spectrum []float64) (int, float64) {
	best := 0
	bestMag := 0.0
	for i, mag := range spectrum {
		if mag > bestMag {
			best, bestMag = i, mag
		}
	}
	return best, bestMag
}
