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

// Config captures logging configuration options.
type Config struct {
	Level    string
	Dir      string
	Filename string
}

// Default is the process-wide fallback logger, set by the first New call.
var Default *Logger

var (
	colorReset = "\x1b[0m"
	colorTime  = "\x1b[90m"
	colorDebug = "\x1b[36m"
	colorInfo  = "\x1b[32m"
	colorWarn  = "\x1b[33m"
	colorError = "\x1b[31m"
)

// tagColors maps module tags to their console colors.
var tagColors = map[string]string{
	"Boot":     "\x1b[96m",
	"HTTP":     "\x1b[95m",
	"TTS":      "\x1b[95m",
	"Playback": "\x1b[92m",
	"Timeline": "\x1b[94m",
}

// textHandler renders colorized single-line console output.
type textHandler struct {
	writer io.Writer
	level  slog.Level
	mu     sync.Mutex
}

func (h *textHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timeStr := r.Time.Format("2006-01-02 15:04:05.000")

	var levelColor string
	switch r.Level {
	case slog.LevelDebug:
		levelColor = colorDebug
	case slog.LevelInfo:
		levelColor = colorInfo
	case slog.LevelWarn:
		levelColor = colorWarn
	case slog.LevelError:
		levelColor = colorError
	default:
		levelColor = colorReset
	}

	msg := r.Message
	if strings.HasPrefix(msg, "[") {
		if end := strings.Index(msg, "]"); end > 1 {
			if color, ok := tagColors[msg[1:end]]; ok {
				msg = color + msg[:end+1] + colorReset + msg[end+1:]
			}
		}
	}

	fmt.Fprintf(h.writer, "%s%s%s %s%-5s%s %s\n",
		colorTime, timeStr, colorReset,
		levelColor, r.Level.String(), colorReset,
		msg)
	return nil
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	return h
}

// Logger writes JSON records to a file and colorized text to the console.
type Logger struct {
	config     Config
	jsonLogger *slog.Logger
	textLogger *slog.Logger
	logFile    *os.File
	mu         sync.RWMutex
}

func parseLevel(configLevel string) slog.Level {
	switch strings.ToLower(configLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a Logger. When cfg.Dir is empty the file sink is skipped and
// only console output is produced.
func New(cfg Config) (*Logger, error) {
	level := parseLevel(cfg.Level)

	logger := &Logger{
		config: cfg,
		textLogger: slog.New(&textHandler{
			writer: os.Stdout,
			level:  level,
		}),
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		logPath := filepath.Join(cfg.Dir, cfg.Filename)
		file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logger.logFile = file
		logger.jsonLogger = slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level: level,
		}))
	}

	if Default == nil {
		Default = logger
	}

	return logger, nil
}

func (l *Logger) Close() error {
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

func (l *Logger) log(level slog.Level, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ctx := context.Background()
	if l.jsonLogger != nil {
		l.jsonLogger.LogAttrs(ctx, level, msg)
	}
	l.textLogger.LogAttrs(ctx, level, msg)
}

func format(msg string, args ...interface{}) string {
	if len(args) > 0 && strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, format(msg, args...))
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, format(msg, args...))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, format(msg, args...))
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, format(msg, args...))
}

// FormatLog builds a tagged log message, e.g. FormatLog("TTS", "ready")
// -> "[TTS] ready". Messages that already carry a tag pass through as-is.
func FormatLog(tag, message string) string {
	tag = strings.TrimSpace(tag)
	message = strings.TrimSpace(message)
	if tag == "" {
		return message
	}
	if strings.HasPrefix(message, "[") {
		return message
	}
	return fmt.Sprintf("[%s] %s", tag, message)
}

func (l *Logger) DebugTag(tag, msg string, args ...interface{}) {
	l.Debug(FormatLog(tag, msg), args...)
}

func (l *Logger) InfoTag(tag, msg string, args ...interface{}) {
	l.Info(FormatLog(tag, msg), args...)
}

func (l *Logger) WarnTag(tag, msg string, args ...interface{}) {
	l.Warn(FormatLog(tag, msg), args...)
}

func (l *Logger) ErrorTag(tag, msg string, args ...interface{}) {
	l.Error(FormatLog(tag, msg), args...)
}

// Slog exposes the console logger for integrations that want slog directly.
func (l *Logger) Slog() *slog.Logger {
	return l.textLogger
}

// Truncate shortens user text for log lines so whole paragraphs never land
// in the logs.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
