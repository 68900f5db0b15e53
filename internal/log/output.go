package log

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	OutputStderr  = "stderr"
	OutputStdout  = "stdout"
	OutputJournal = "journal"
)

// NewOutputConfigurator resolves an output name into a configurator. Anything
// other than stderr, stdout or journal is treated as a file path opened for
// append. The returned close func must be called on shutdown.
func NewOutputConfigurator(level, output string) (*LoggerConfigurator, func() error, error) {
	config := NewLogConfigurator()
	config.Level = level
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", OutputStderr:
		config.Writer = os.Stderr
	case OutputStdout:
		config.Writer = os.Stdout
	case OutputJournal:
		// stderr stays as the fallback when journald is not reachable
		config.Writer = os.Stderr
		config.Journal = true
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("unable to open log file %s: %w", output, err)
		}
		config.Writer = f
		return config, f.Close, nil
	}
	return config, noop, nil
}

// Discard returns a configurator that drops every record below FATAL.
func Discard() *LoggerConfigurator {
	config := NewLogConfigurator()
	config.Writer = io.Discard
	config.Level = FATAL.String()
	return config
}
