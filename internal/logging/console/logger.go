package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Level represents the severity attached to a log entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String renders the severity label used in console output.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "INFO"
	}
}

// ParseLevel maps a configuration string onto a console level.
func ParseLevel(value string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

// Options configures the console logger provider.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
}

// Provider satisfies interfaces.LoggerProvider with plain-text output. It is
// the default provider when no structured logging backend is configured.
type Provider struct {
	mu       sync.Mutex
	writer   io.Writer
	clock    func() time.Time
	minLevel Level
}

// NewProvider builds a console provider with the supplied options.
func NewProvider(opts Options) *Provider {
	p := &Provider{
		writer:   opts.Writer,
		clock:    opts.TimeFunc,
		minLevel: LevelDebug,
	}
	if p.writer == nil {
		p.writer = os.Stdout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if opts.MinLevel != nil {
		p.minLevel = *opts.MinLevel
	}
	return p
}

// GetLogger returns a named console logger.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	return &logger{provider: p, name: strings.TrimSpace(name)}
}

type logger struct {
	provider *Provider
	name     string
	fields   map[string]any
	ctx      context.Context
}

var _ interfaces.Logger = (*logger)(nil)
var _ interfaces.FieldsLogger = (*logger)(nil)

func (l *logger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args...) }
func (l *logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }
func (l *logger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args...) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &logger{provider: l.provider, name: l.name, fields: merged, ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return &logger{provider: l.provider, name: l.name, fields: l.fields, ctx: ctx}
}

func (l *logger) log(level Level, msg string, args ...any) {
	p := l.provider
	if p == nil || level < p.minLevel {
		return
	}

	fields := make(map[string]any, len(l.fields)+len(args)/2)
	for k, v := range logging.ContextFields(l.ctx) {
		fields[k] = v
	}
	for k, v := range l.fields {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(p.clock().UTC().Format(time.RFC3339))
	builder.WriteString(" ")
	builder.WriteString(level.String())
	if l.name != "" {
		builder.WriteString(" [")
		builder.WriteString(l.name)
		builder.WriteString("]")
	}
	builder.WriteString(" ")
	builder.WriteString(msg)
	for _, k := range keys {
		builder.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
	}
	builder.WriteString("\n")

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.writer, builder.String())
}
