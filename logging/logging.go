package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogFileName is the file created inside the configured log path
const LogFileName = "copkg.log"

// maxPreLogs bounds the buffer kept while no logger exists. Library users
// that never call InitLogger only ever hold the most recent entries.
const maxPreLogs = 256

type preLogEntry struct {
	level   slog.Level
	message string
}

var (
	mu          sync.Mutex
	logger      *slog.Logger
	logFile     *os.File
	output      io.Writer = os.Stdout
	preLogLevel           = slog.LevelInfo
	preLogs     []preLogEntry
)

// ParseLevel converts a textual level (DEBUG, INFO, WARN, ERROR) to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// PreLog records a message emitted before InitLogger has run.
// Entries are replayed through the real logger once it exists.
func PreLog(level, format string, args ...interface{}) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		logger.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
		return
	}
	bufferLocked(lvl, fmt.Sprintf(format, args...))
}

// bufferLocked appends to preLogs, dropping the oldest entry when full.
// mu must be held.
func bufferLocked(level slog.Level, message string) {
	if len(preLogs) >= maxPreLogs {
		copy(preLogs, preLogs[1:])
		preLogs = preLogs[:len(preLogs)-1]
	}
	preLogs = append(preLogs, preLogEntry{level: level, message: message})
}

// SetPreLogLevel sets the level used to filter buffered messages on replay
func SetPreLogLevel(level string) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return
	}
	mu.Lock()
	preLogLevel = lvl
	mu.Unlock()
}

// InitLogger creates the process logger.
// logPath is a directory; when empty, logs only go to stderr.
func InitLogger(logPath, level string, jsonFormat bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	var file *os.File
	if logPath != "" {
		if err := os.MkdirAll(logPath, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err = os.OpenFile(filepath.Join(logPath, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	logger = slog.New(handler)

	for _, entry := range preLogs {
		if entry.level >= preLogLevel {
			logger.Log(context.Background(), entry.level, entry.message)
		}
	}
	preLogs = nil
	return nil
}

// SetOutput redirects LogOutput, mainly for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// Close releases the log file, if any
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// log sends to the process logger. Without one, messages below the
// pre-log level are dropped instead of buffered.
func log(level slog.Level, format string, args ...interface{}) {
	mu.Lock()
	l := logger
	if l == nil {
		if level >= preLogLevel {
			bufferLocked(level, fmt.Sprintf(format, args...))
		}
		mu.Unlock()
		return
	}
	mu.Unlock()

	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// LogDebug logs at debug level
func LogDebug(format string, args ...interface{}) {
	log(slog.LevelDebug, format, args...)
}

// LogInfo logs at info level
func LogInfo(format string, args ...interface{}) {
	log(slog.LevelInfo, format, args...)
}

// LogWarn logs at warn level
func LogWarn(format string, args ...interface{}) {
	log(slog.LevelWarn, format, args...)
}

// LogError logs at error level
func LogError(format string, args ...interface{}) {
	log(slog.LevelError, format, args...)
}

// LogOutput prints user-facing output, independent of the log level
func LogOutput(format string, args ...interface{}) {
	mu.Lock()
	w := output
	mu.Unlock()
	fmt.Fprintf(w, format+"\n", args...)
}
