package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// EnvLogLevel overrides the configured log level
const EnvLogLevel = "PLUGHUB_LOG_LEVEL"

// DefaultLevel is used when neither flag, env nor config set a level
const DefaultLevel = "warn"

var (
	logger   hclog.Logger = hclog.NewNullLogger()
	loggerMu sync.RWMutex
)

// Options configures New
type Options struct {
	Level  string
	Output io.Writer
	JSON   bool
}

// ParseLevel validates a level name
func ParseLevel(level string) (hclog.Level, error) {
	l := hclog.LevelFromString(strings.TrimSpace(level))
	if l == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("invalid log level %q: expected trace, debug, info, warn, error or off", level)
	}
	return l, nil
}

// New creates the root logger
func New(opts Options) (hclog.Logger, error) {
	level := opts.Level
	if level == "" {
		level = DefaultLevel
	}
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "plughub",
		Level:      l,
		Output:     out,
		JSONFormat: opts.JSON,
	}), nil
}

// ResolveLevel picks the first non-empty level: flag, environment, config
func ResolveLevel(flag, config string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		return env
	}
	if config != "" {
		return config
	}
	return DefaultLevel
}

// Set replaces the process-wide logger
func Set(l hclog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// L returns the process-wide logger; a null logger until Set is called
func L() hclog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
