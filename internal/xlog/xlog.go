// Package xlog is a small structured-logging wrapper, following the
// lumberjack-backed logger construction in ausocean/av's cmd/rv/main.go,
// swapping the private ausocean/utils/logging facade (not a dependency of
// this module) for a direct go.uber.org/zap core.
package xlog

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a thin facade over a zap.SugaredLogger. The zero value is not
// usable; construct with New or Nop.
type Logger struct {
	s *zap.SugaredLogger
}

// Config mirrors the teacher's fileLog := &lumberjack.Logger{...} literal
// in cmd/rv/main.go.
type Config struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      zapcore.Level
	// Extra, when set, additionally writes to another destination (the
	// teacher's io.MultiWriter(fileLog, netLog) pattern).
	Extra io.Writer
}

// New builds a Logger that writes JSON-encoded entries to a
// lumberjack-rotated file (and optionally cfg.Extra) at cfg.Level and
// above.
func New(cfg Config) *Logger {
	rotated := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	var w io.Writer = rotated
	if cfg.Extra != nil {
		w = io.MultiWriter(rotated, cfg.Extra)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		cfg.Level,
	)
	return &Logger{s: zap.New(core).Sugar()}
}

// Nop returns a Logger that discards everything, used as the default when
// a package is constructed without an explicit logger.
func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.s.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.s.Infof(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.s.Errorf(format, args...)
}

// Sync flushes any buffered log entries, mirroring the defer log.Sync()
// idiom expected at the end of a zap-backed main.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.s.Sync()
}
