// Package logger provides the process-wide leveled logger.
//
// Output goes to stderr by default. The level is set once at startup from
// the --log flag or the logging section of the config file; everything
// below the active level is dropped.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelPanic
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
	LevelPanic: "PANIC",
}

var (
	mu    sync.Mutex
	level = LevelInfo
	out   io.Writer = os.Stderr
)

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "panic":
		return LevelPanic, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel sets the minimum severity that gets written.
func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// Init applies the logging section of the config file: level name and an
// optional log file that is written in addition to stderr. An empty level
// leaves the current level untouched.
func Init(levelName, file string) error {
	if levelName != "" {
		l, err := ParseLevel(levelName)
		if err != nil {
			return err
		}
		SetLevel(l)
	}
	if file != "" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		SetOutput(io.MultiWriter(os.Stderr, f))
	}
	return nil
}

func logf(l Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	ts := time.Now().Format("2006/01/02 15:04:05")
	fmt.Fprintf(out, "%s [%s] %s\n", ts, levelNames[l], fmt.Sprintf(format, args...))
}

func Trace(format string, args ...interface{}) { logf(LevelTrace, format, args...) }
func Debug(format string, args ...interface{}) { logf(LevelDebug, format, args...) }
func Info(format string, args ...interface{})  { logf(LevelInfo, format, args...) }
func Warn(format string, args ...interface{})  { logf(LevelWarn, format, args...) }
func Error(format string, args ...interface{}) { logf(LevelError, format, args...) }

// Fatal logs at FATAL and exits the process.
func Fatal(format string, args ...interface{}) {
	logf(LevelFatal, format, args...)
	os.Exit(1)
}

// Panic logs at PANIC and panics with the formatted message.
func Panic(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logf(LevelPanic, "%s", msg)
	panic(msg)
}
