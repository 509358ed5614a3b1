// Package logging builds the zap loggers used by transcodectl and its servers.
package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/RowanDark/transcode/internal/config"
)

type Option func(*options) error

type options struct {
	writers   []io.Writer
	closers   []io.Closer
	useStderr bool
	level     zapcore.Level
	json      bool
}

func defaultOptions() *options {
	return &options{useStderr: true, level: zapcore.InfoLevel}
}

// WithWriter adds an extra output.
func WithWriter(w io.Writer) Option {
	return func(o *options) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		o.writers = append(o.writers, w)
		return nil
	}
}

// WithFile appends log lines to path. When rotation is enabled the file is
// managed by lumberjack.
func WithFile(path string, rotation config.RotationConfig) Option {
	return func(o *options) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return errors.New("file path cannot be empty")
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if rotation.Enable {
			lj := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    max(rotation.MaxSizeMB, 1),
				MaxBackups: max(rotation.MaxBackups, 0),
				MaxAge:     max(rotation.MaxAgeDays, 0),
				Compress:   rotation.Compress,
			}
			o.writers = append(o.writers, lj)
			o.closers = append(o.closers, lj)
			return nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		o.writers = append(o.writers, f)
		o.closers = append(o.closers, f)
		return nil
	}
}

// WithoutStderr drops the default stderr output.
func WithoutStderr() Option {
	return func(o *options) error {
		o.useStderr = false
		return nil
	}
}

// WithLevel sets the minimum level: debug, info, warn or error.
func WithLevel(level string) Option {
	return func(o *options) error {
		level = strings.ToLower(strings.TrimSpace(level))
		if level == "warning" {
			level = "warn"
		}
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		o.level = parsed
		return nil
	}
}

// WithFormat selects the "json" or "console" encoder.
func WithFormat(format string) Option {
	return func(o *options) error {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "json":
			o.json = true
		case "console", "":
			o.json = false
		default:
			return errors.New("unknown log format " + format)
		}
		return nil
	}
}

// Logger is a zap logger that owns its output files.
type Logger struct {
	*zap.Logger
	closers []io.Closer
}

// New builds a logger tagged with component.
func New(component string, opts ...Option) (*Logger, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			for _, closer := range o.closers {
				_ = closer.Close()
			}
			return nil, err
		}
	}

	writers := o.writers
	if o.useStderr {
		writers = append([]io.Writer{os.Stderr}, writers...)
	}
	if len(writers) == 0 {
		return nil, errors.New("no writers configured for logger")
	}

	var encoder zapcore.Encoder
	if o.json {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(io.MultiWriter(writers...)), o.level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	if component != "" {
		logger = logger.With(zap.String("component", component))
	}
	return &Logger{Logger: logger, closers: o.closers}, nil
}

// FromConfig builds a logger from the log section of the configuration.
// Extra options are applied after the configured ones.
func FromConfig(component string, cfg config.LogConfig, extra ...Option) (*Logger, error) {
	opts := []Option{WithLevel(cfg.Level), WithFormat(cfg.Format)}
	if cfg.File != "" {
		opts = append(opts, WithFile(cfg.File, cfg.Rotation))
	}
	return New(component, append(opts, extra...)...)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Close flushes buffered entries and closes owned files.
func (l *Logger) Close() error {
	if l == nil || l.Logger == nil {
		return nil
	}
	// Sync on a terminal stderr fails on some platforms; only file errors matter.
	_ = l.Logger.Sync()
	var firstErr error
	for _, closer := range l.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.closers = nil
	return firstErr
}
