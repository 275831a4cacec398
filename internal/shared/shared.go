// package shared defines configuration, errors, logging and storage helpers used across featx
package shared

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates the application [log.Logger] writing to w, which defaults to [os.Stderr].
//
// Entries carry a timestamp, the caller and the "featx" prefix.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true, Prefix: "featx"}
	return log.NewWithOptions(w, opts)
}

// RunLogger returns a child logger tagging every entry with the short form of runID.
func RunLogger(l *log.Logger, runID string) *log.Logger {
	return l.With("run", ShortID(runID))
}

// SetVerbose switches l between info and debug output.
func SetVerbose(l *log.Logger, verbose bool) {
	if verbose {
		l.SetLevel(log.DebugLevel)
		return
	}
	l.SetLevel(log.InfoLevel)
}

// GenerateID returns a new v4 [uuid.UUID] string identifying one analysis run.
func GenerateID() string {
	return uuid.New().String()
}

// ShortID returns the first group of a run identifier.
func ShortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok && head != "" {
		return head
	}
	return id
}
