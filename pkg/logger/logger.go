// Package logger hands out prefixed structured loggers that share one output
// and one verbosity switch.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// VerboseEnv enables debug output when set to any non-empty value.
const VerboseEnv = "GRIDSPLIT_VERBOSE"

var (
	mu      sync.RWMutex
	verbose = os.Getenv(VerboseEnv) != ""
	output  io.Writer = os.Stderr
)

// SetVerbose switches loggers created afterwards to debug level.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether debug logging is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects loggers created afterwards. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// New returns a logger tagged with prefix.
func New(prefix string) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(output, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: verbose,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
