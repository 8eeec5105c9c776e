package driver

import (
	"io"
	"log"
)

// Logger wraps a standard *log.Logger for the pipeline's -verbose
// diagnostics. A nil *Logger is valid and silently discards output,
// so callers that don't care about verbosity can leave Options.Logger
// unset.
type Logger struct {
	verbose *log.Logger
}

// New constructs a Logger that writes to w when verbose is true, and
// discards output otherwise.
func New(w io.Writer, verbose bool) *Logger {
	if !verbose {
		return &Logger{verbose: log.New(io.Discard, "", 0)}
	}
	return &Logger{verbose: log.New(w, "", 0)}
}

// Printf logs a formatted diagnostic line. It is safe to call on a nil
// *Logger.
func (l *Logger) Printf(format string, args ...interface{}) {
	if l == nil || l.verbose == nil {
		return
	}
	l.verbose.Printf(format, args...)
}
