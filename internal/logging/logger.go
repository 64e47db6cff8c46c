package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes one JSON object per line: ts, level, msg, component and any fields.
type Logger struct {
	level     Level
	component string
	fields    map[string]any
	mu        *sync.Mutex
	out       io.Writer
	now       func() time.Time
}

func NewLogger(levelStr string) *Logger {
	return NewLoggerWithWriter(levelStr, os.Stdout)
}

func NewLoggerWithWriter(levelStr string, w io.Writer) *Logger {
	return &Logger{
		level: ParseLevel(levelStr),
		mu:    &sync.Mutex{},
		out:   w,
		now:   time.Now,
	}
}

// WithComponent returns a logger sharing the same output that tags every line.
func (l *Logger) WithComponent(name string) *Logger {
	c := *l
	c.component = name
	return &c
}

// With returns a logger that adds fields to every line.
func (l *Logger) With(fields map[string]any) *Logger {
	c := *l
	c.fields = make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		c.fields[k] = v
	}
	for k, v := range fields {
		c.fields[k] = v
	}
	return &c
}

func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) Debugw(msg string, fields map[string]any) { l.write(LevelDebug, msg, fields) }
func (l *Logger) Infow(msg string, fields map[string]any)  { l.write(LevelInfo, msg, fields) }
func (l *Logger) Warnw(msg string, fields map[string]any)  { l.write(LevelWarn, msg, fields) }
func (l *Logger) Errorw(msg string, fields map[string]any) { l.write(LevelError, msg, fields) }

func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, args...), map[string]any{"fatal": true})
	os.Exit(1)
}

func (l *Logger) write(level Level, msg string, fields map[string]any) {
	if !l.Enabled(level) {
		return
	}
	rec := make(map[string]any, len(l.fields)+len(fields)+4)
	for k, v := range l.fields {
		rec[k] = v
	}
	for k, v := range fields {
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		rec[k] = v
	}
	rec["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	rec["level"] = level.String()
	rec["msg"] = msg
	if l.component != "" {
		rec["component"] = l.component
	}

	line, err := json.Marshal(rec)
	if err != nil {
		line, _ = json.Marshal(map[string]any{
			"ts":     rec["ts"],
			"level":  "error",
			"msg":    "log.encode_failed",
			"error":  err.Error(),
			"event":  msg,
			"fields": fieldNames(fields),
		})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(line, '\n'))
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
