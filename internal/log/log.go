package log

import (
	"bytes"
	"fmt"
	"github.com/coreos/go-systemd/v22/journal"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LoggerConfigurator is a data structure used to configure a CoreLogger.
type LoggerConfigurator struct {
	Writer            io.Writer
	Level             string
	TimeFormatTempl   string
	CallerFormatTempl string
	Journal           bool
}

// NewLogConfigurator creates a new LoggerConfigurator.
func NewLogConfigurator() *LoggerConfigurator {
	return &LoggerConfigurator{
		Writer:          os.Stderr,
		Level:           "WARN",
		TimeFormatTempl: time.RFC3339 + " ",
	}
}

// Output returns the log writer instance.
func (config *LoggerConfigurator) Output() io.Writer {
	return config.Writer
}

// LogLevel returns the log level.
func (config *LoggerConfigurator) LogLevel() string {
	return config.Level
}

// TimestampFormat returns the log timestamp format.
func (config *LoggerConfigurator) TimestampFormat() string {
	return config.TimeFormatTempl
}

// CallerFormat returns the log caller format template.
func (config *LoggerConfigurator) CallerFormat() string {
	return config.CallerFormatTempl
}

// UseJournal reports whether records go to the systemd journal.
func (config *LoggerConfigurator) UseJournal() bool {
	return config.Journal
}

// Level is the logging level.
type Level int

const (
	// DEBUG level for developer information
	DEBUG Level = iota - 1
	// INFO level for state and status
	INFO
	// WARN level for possible issues
	WARN
	// ERROR level for errors
	ERROR
	// FATAL level for unrecoverable errors that stop the process.
	FATAL
)

// String returns an upper case string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// PaddedString returns a five character upper case representation of the log level
func (l Level) PaddedString() string {
	s := l.String()
	if len(s) < 5 {
		s += strings.Repeat(" ", 5-len(s))
	}
	return s
}

// UnmarshalText converts a slice of characters to a Level
func (l *Level) UnmarshalText(text []byte) bool {
	switch strings.TrimSpace(string(bytes.ToUpper(text))) {
	case "DEBUG":
		*l = DEBUG
	case "INFO":
		*l = INFO
	case "WARN", "WARNING", "":
		*l = WARN
	case "ERROR":
		*l = ERROR
	case "FATAL":
		*l = FATAL
	default:
		return false
	}
	return true
}

func (l Level) priority() journal.Priority {
	switch l {
	case DEBUG:
		return journal.PriDebug
	case INFO:
		return journal.PriInfo
	case WARN:
		return journal.PriWarning
	case ERROR:
		return journal.PriErr
	default:
		return journal.PriCrit
	}
}

// CoreLogger implements logging
type CoreLogger struct {
	mu              sync.Mutex
	level           Level
	writer          io.Writer
	journal         bool
	timestampFormat string
	callerFormat    string
}

var defaultLogger *CoreLogger
var defaultOnce sync.Once

// TerminateFunc defines logic for termination of fatal log messages.
var TerminateFunc = terminate

// Configurator has methods to fetch the logger configuration values
type Configurator interface {
	LogLevel() string
	Output() io.Writer
	TimestampFormat() string
	CallerFormat() string
	UseJournal() bool
}

// New creates a new logger using default settings.
// Standard error, WARN level, timestamping and file:line reporting
func New() *CoreLogger {
	return &CoreLogger{
		level:           WARN,
		writer:          os.Stderr,
		timestampFormat: "01-02 15:04:05.000 ",
		callerFormat:    " %20.20s:%03d - ",
	}
}

// GetDefaultLogger returns the default logger implementation.
func GetDefaultLogger() *CoreLogger {
	defaultOnce.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

// Perform the actual logging routine
func (c *CoreLogger) log(level Level, format string, args []interface{}, callDepth int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Skip logging if log level is above requested level
	if level < c.level {
		return
	}

	if callDepth < 0 {
		callDepth = 2
	}
	_, file, line, ok := runtime.Caller(callDepth)
	if !ok {
		file = "???"
		line = 0
	} else {
		file = filepath.Base(file)
	}

	var msg string
	if format == "" {
		msg = fmt.Sprint(args...)
	} else {
		msg = fmt.Sprintf(format, args...)
	}

	if c.journal {
		err := journal.Send(msg, level.priority(), map[string]string{
			"SYSLOG_IDENTIFIER": "led-ctl",
			"CODE_FILE":         file,
			"CODE_LINE":         strconv.Itoa(line),
		})
		if err == nil {
			return
		}
	}

	var b strings.Builder
	b.WriteString(time.Now().Format(c.timestampFormat))
	b.WriteString(level.PaddedString())
	_, _ = fmt.Fprintf(&b, c.callerFormat, file, line)
	b.WriteString(msg)
	b.WriteString("\n")
	_, _ = c.writer.Write([]byte(b.String()))
}

// Replaceable termination logic for testing fatal errors
func terminate() {
	os.Exit(1)
}

// Setup is called to configure a custom logger implementation.
func (c *CoreLogger) Setup(config Configurator) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.level.UnmarshalText([]byte(config.LogLevel()))
	if writer := config.Output(); writer != nil {
		c.writer = writer
	}
	if f := config.TimestampFormat(); f != "" {
		c.timestampFormat = f
	}
	if f := config.CallerFormat(); f != "" {
		c.callerFormat = f
	}
	c.journal = config.UseJournal() && journal.Enabled()
}

// SetOutput sets the io.Writer to which all future log messages will be written.
func (c *CoreLogger) SetOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer = w
}

// SetLogLevel sets a filter on the minimum level of messages that will be logged.
func (c *CoreLogger) SetLogLevel(level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

// GetLogLevel gets the current log level.
func (c *CoreLogger) GetLogLevel() Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

func (c *CoreLogger) Debugf(format string, args ...interface{}) {
	c.log(DEBUG, format, args, -1)
}
func (c *CoreLogger) Infof(format string, args ...interface{}) {
	c.log(INFO, format, args, -1)
}
func (c *CoreLogger) Warnf(format string, args ...interface{}) {
	c.log(WARN, format, args, -1)
}
func (c *CoreLogger) Errorf(format string, args ...interface{}) {
	c.log(ERROR, format, args, -1)
}
func (c *CoreLogger) Fatalf(format string, args ...interface{}) {
	c.log(FATAL, format, args, -1)
	TerminateFunc()
}

// *************************************************************
// Package level methods that fall through to the default logger.

// Setup configures the default logger.
func Setup(config Configurator) {
	GetDefaultLogger().Setup(config)
}

// SetOutput sets the writer of the default logger.
func SetOutput(w io.Writer) {
	GetDefaultLogger().SetOutput(w)
}

// SetLogLevel sets the level of the default logger.
func SetLogLevel(level Level) {
	GetDefaultLogger().SetLogLevel(level)
}

// GetLogLevel gets the log level of the default logger.
func GetLogLevel() Level {
	return GetDefaultLogger().GetLogLevel()
}

// Debugf logs a formatted message at DEBUG level.
func Debugf(format string, args ...interface{}) {
	GetDefaultLogger().log(DEBUG, format, args, -1)
}

// Infof logs a formatted message at INFO level.
func Infof(format string, args ...interface{}) {
	GetDefaultLogger().log(INFO, format, args, -1)
}

// Warnf logs a formatted message at WARN level.
func Warnf(format string, args ...interface{}) {
	GetDefaultLogger().log(WARN, format, args, -1)
}

// Errorf logs a formatted message at ERROR level.
func Errorf(format string, args ...interface{}) {
	GetDefaultLogger().log(ERROR, format, args, -1)
}

// Fatal logs a message at FATAL level and then calls os.Exit(1).
func Fatal(args ...interface{}) {
	GetDefaultLogger().log(FATAL, "", args, -1)
	TerminateFunc()
}

// Fatalf logs a formatted message at FATAL level and then calls os.Exit(1).
func Fatalf(format string, args ...interface{}) {
	GetDefaultLogger().log(FATAL, format, args, -1)
	TerminateFunc()
}
