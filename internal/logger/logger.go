// Package logger owns the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared logger. It writes text to stderr until Init runs.
var Log = logrus.New()

// Config mirrors config.Log without importing it.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
	Verbose    bool
}

// Init configures Log. When File is set, every line is also written to a
// size-rotated file. The returned closer releases the file handle.
func Init(cfg Config, stderr io.Writer) io.Closer {
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	Log.SetLevel(ParseLevel(cfg.Level))
	if cfg.Verbose && Log.GetLevel() < logrus.DebugLevel {
		Log.SetLevel(logrus.DebugLevel)
	}

	if stderr == nil {
		stderr = os.Stderr
	}
	if cfg.File == "" {
		Log.SetOutput(stderr)
		return nopCloser{}
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     28, // days
		Compress:   cfg.Compress,
	}
	Log.SetOutput(io.MultiWriter(stderr, lj))
	return lj
}

// ParseLevel maps a config level name onto logrus; unknown names are info.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
