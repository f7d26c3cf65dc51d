package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by every portal binary. Deliberately zero-dep: the
// whole surface is a level filter and a timestamped line writer.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var (
	mu  sync.RWMutex
	out io.Writer = os.Stdout
	min Level     = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn,
// error, fatal; anything else means info). Call early during startup.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	min = parseLevel(l)
}

// SetOutput redirects log output; tests use it to capture lines. A nil
// writer restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

func parseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func emit(l Level, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if l < min {
		return
	}
	line := fmt.Sprintf("%s [%s] %s\n",
		time.Now().Format(time.RFC3339),
		strings.ToUpper(levelNames[l]),
		fmt.Sprintf(format, v...))
	_, _ = io.WriteString(out, line)
}

func Debugf(format string, v ...interface{}) { emit(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { emit(LevelError, format, v...) }

// Fatalf always logs, then exits.
func Fatalf(format string, v ...interface{}) {
	emit(LevelFatal, format, v...)
	os.Exit(1)
}

// Single-string convenience variants.
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString reports the active level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[min]
}
