// Package logutils builds the process-wide zerolog logger.
package logutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMaxBytes is the log size at which New rotates the file.
const DefaultMaxBytes int64 = 5 << 20

// Options configures New.
type Options struct {
	// Level is one of: debug, info, warn, error, fatal, panic. Case is ignored.
	Level string

	// File receives JSON lines. Empty means stderr, so logs never mix with
	// command output.
	File string

	// MaxBytes caps the log file. A file already at or over the cap is moved
	// to File+".1" before opening, replacing any earlier rotation. Zero disables
	// rotation.
	MaxBytes int64
}

// New returns a logger appending to opts.File and a func that closes the file.
func New(opts Options) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	writer := os.Stderr
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		if err := rotate(opts.File, opts.MaxBytes); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("rotate log: %w", err)
		}

		osFile, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = osFile.Close() }
		writer = osFile
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}

func rotate(file string, maxBytes int64) error {
	if maxBytes <= 0 {
		return nil
	}

	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() < maxBytes {
		return nil
	}

	return os.Rename(file, file+".1")
}
