package logx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// OutputFormat defines the log output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// Logger represents a logger instance
type Logger struct {
	mu             sync.Mutex
	level          Level
	out            io.Writer
	prefix         string
	showCaller     bool
	colored        bool
	format         OutputFormat
	debugFormatter *DebugFormatter
	now            func() time.Time
}

// New creates a new logger with default settings
func New() *Logger {
	return &Logger{
		level:          InfoLevel,
		out:            os.Stdout,
		showCaller:     true,
		colored:        true,
		format:         FormatConsole,
		debugFormatter: NewDebugFormatter(),
		now:            time.Now,
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output destination
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetPrefix sets a prefix for all log messages
func (l *Logger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

// SetShowCaller enables or disables showing caller information
func (l *Logger) SetShowCaller(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showCaller = show
}

// SetColored enables or disables colored output
func (l *Logger) SetColored(colored bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colored = colored
}

// SetFormat sets the output format. JSON output is never colored.
func (l *Logger) SetFormat(format OutputFormat) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
	if format == FormatJSON {
		l.colored = false
	}
}

// IsLevelEnabled checks if a level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

// findCaller finds the first caller outside of the logx package
func findCaller() string {
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(filepath.ToSlash(file), "/logx/") && !strings.HasSuffix(file, "_test.go") {
			continue
		}
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return ""
}

func (l *Logger) log(level Level, formatArgs bool, msg string, args ...any) {
	if !l.IsLevelEnabled(level) {
		return
	}

	var caller string
	if l.showCaller {
		caller = findCaller()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if formatArgs && level <= DebugLevel && l.format == FormatConsole {
		formatted := make([]any, len(args))
		for i, arg := range args {
			formatted[i] = l.debugFormatter.Arg(arg)
		}
		args = formatted
	}
	message := fmt.Sprintf(msg, args...)

	if l.format == FormatJSON {
		entry := map[string]any{
			"timestamp": l.now().Format(time.RFC3339),
			"level":     level.String(),
			"message":   message,
		}
		if l.prefix != "" {
			entry["prefix"] = l.prefix
		}
		if caller != "" {
			entry["caller"] = caller
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(l.out, string(data))
		}
		return
	}

	levelStr := level.String()
	if l.colored {
		levelStr = level.Colorize()
	}
	if caller != "" {
		caller = " " + caller
	}

	timestamp := l.now().Format("2006-01-02 15:04:05")
	if l.prefix != "" {
		fmt.Fprintf(l.out, "[%s] %s [%s]%s: %s\n", timestamp, l.prefix, levelStr, caller, message)
		return
	}
	fmt.Fprintf(l.out, "[%s] [%s]%s: %s\n", timestamp, levelStr, caller, message)
}

// Trace logs a message at trace level
func (l *Logger) Trace(msg string, args ...any) {
	l.log(TraceLevel, true, msg, args...)
}

// Debug logs a message at debug level
func (l *Logger) Debug(msg string, args ...any) {
	l.log(DebugLevel, true, msg, args...)
}

// Info logs a message at info level
func (l *Logger) Info(msg string, args ...any) {
	l.log(InfoLevel, false, msg, args...)
}

// Warn logs a message at warn level
func (l *Logger) Warn(msg string, args ...any) {
	l.log(WarnLevel, false, msg, args...)
}

// Error logs a message at error level
func (l *Logger) Error(msg string, args ...any) {
	l.log(ErrorLevel, false, msg, args...)
}

// Fatal logs a message at error level and exits
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(ErrorLevel, false, msg, args...)
	os.Exit(1)
}

// DebugStruct logs a value with full debug formatting
func (l *Logger) DebugStruct(name string, value any) {
	if !l.IsLevelEnabled(DebugLevel) {
		return
	}
	l.log(DebugLevel, false, "%s = %s", name, l.debugFormatter.Format(value))
}
