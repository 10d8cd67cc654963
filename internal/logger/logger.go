package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
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

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case); unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

type ErrObj struct {
	Msg string `json:"msg"`
}

// Entry is one JSON log line.
type Entry struct {
	Timestamp  string         `json:"timestamp"`
	Level      string         `json:"level"`
	Service    string         `json:"service"`
	Action     string         `json:"action"`
	Message    string         `json:"message"`
	Hostname   string         `json:"hostname"`
	RequestID  string         `json:"request_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Error      *ErrObj        `json:"error,omitempty"`
	Additional map[string]any `json:"additional,omitempty"`
}

type Logger struct {
	service  string
	minLevel Level
	hostname string
	now      func() time.Time

	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// New writes INFO and below to stdout and ERROR to stderr.
func New(service, minLevel string) *Logger {
	return NewWithWriters(service, minLevel, os.Stdout, os.Stderr)
}

func NewWithWriters(service, minLevel string, out, errOut io.Writer) *Logger {
	h, _ := os.Hostname()
	return &Logger{
		service:  service,
		minLevel: ParseLevel(minLevel),
		hostname: h,
		now:      time.Now,
		out:      out,
		err:      errOut,
	}
}

// Nop discards everything; used by tests and tools.
func Nop() *Logger {
	return NewWithWriters("nop", "ERROR", io.Discard, io.Discard)
}

func (l *Logger) Debug(e Entry) { l.log(LevelDebug, e, nil) }
func (l *Logger) Info(e Entry)  { l.log(LevelInfo, e, nil) }
func (l *Logger) Warn(e Entry)  { l.log(LevelWarn, e, nil) }
func (l *Logger) Error(e Entry) { l.log(LevelError, e, nil) }

// Fatal logs at ERROR and exits.
func (l *Logger) Fatal(e Entry) {
	l.log(LevelError, e, nil)
	os.Exit(1)
}

// WithFields returns a logger that merges base into every entry's Additional.
func (l *Logger) WithFields(base map[string]any) *ContextLogger {
	return &ContextLogger{parent: l, base: base}
}

// WithRequest attaches request and user ids.
func (l *Logger) WithRequest(requestID, userID string) *ContextLogger {
	base := map[string]any{}
	if requestID != "" {
		base["request_id"] = requestID
	}
	if userID != "" {
		base["user_id"] = userID
	}
	return &ContextLogger{parent: l, base: base}
}

type ContextLogger struct {
	parent *Logger
	base   map[string]any
}

func (c *ContextLogger) Debug(e Entry) { c.parent.log(LevelDebug, e, c.base) }
func (c *ContextLogger) Info(e Entry)  { c.parent.log(LevelInfo, e, c.base) }
func (c *ContextLogger) Warn(e Entry)  { c.parent.log(LevelWarn, e, c.base) }
func (c *ContextLogger) Error(e Entry) { c.parent.log(LevelError, e, c.base) }

func (l *Logger) log(level Level, e Entry, base map[string]any) {
	if level < l.minLevel {
		return
	}

	if e.Timestamp == "" {
		e.Timestamp = l.now().UTC().Format(time.RFC3339Nano)
	}
	e.Level = level.String()
	if e.Service == "" {
		e.Service = l.service
	}
	if e.Hostname == "" {
		e.Hostname = l.hostname
	}

	for k, v := range base {
		switch k {
		case "request_id":
			if e.RequestID == "" {
				e.RequestID, _ = v.(string)
			}
		case "user_id":
			if e.UserID == "" {
				e.UserID, _ = v.(string)
			}
		default:
			if e.Additional == nil {
				e.Additional = map[string]any{}
			}
			if _, ok := e.Additional[k]; !ok {
				e.Additional[k] = v
			}
		}
	}

	if level == LevelError {
		if e.Additional == nil {
			e.Additional = map[string]any{}
		}
		if _, ok := e.Additional["caller"]; !ok {
			if _, file, line, ok := runtime.Caller(2); ok {
				e.Additional["caller"] = fmt.Sprintf("%s:%d", file, line)
			}
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		b = []byte(fmt.Sprintf(`{"timestamp":%q,"level":"ERROR","service":%q,"message":"failed to marshal log: %v"}`,
			l.now().UTC().Format(time.RFC3339Nano), l.service, err))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.out
	if level == LevelError {
		w = l.err
	}
	_, _ = w.Write(append(b, '\n'))
}
