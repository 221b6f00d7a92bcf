// Package logger configures the global zerolog logger used across the service.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for LOG_FILE.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 28
)

var (
	mu       sync.Mutex
	fileSink io.WriteCloser
)

// ParseLevel maps LOG_LEVEL to a zerolog level. Unknown or empty values mean info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Init points the global logger at stderr and, when file is set, a rotating log file.
func Init(level, file string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		mu.Lock()
		closeSink()
		fileSink = lj
		mu.Unlock()
		w = zerolog.MultiLevelWriter(os.Stderr, lj)
	}
	return InitWithWriter(level, w)
}

// InitWithWriter is Init with a caller-supplied writer; tests use it to capture output.
func InitWithWriter(level string, w io.Writer) zerolog.Logger {
	l := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Str("service", "certify-api").Logger()
	mu.Lock()
	log.Logger = l
	mu.Unlock()
	return l
}

// Close flushes and closes the log file opened by Init, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeSink()
}

func closeSink() {
	if fileSink != nil {
		_ = fileSink.Close()
		fileSink = nil
	}
}
