package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// WriteError prints the single user-facing failure line.
func WriteError(w io.Writer, message string) {
	message = strings.Join(strings.Fields(message), " ")
	fmt.Fprintf(w, "Error: %s\n", message)
}

// NewLogger returns the diagnostic logger. Everything goes to stderr; at the
// default level only warnings are shown so stdout/stderr stay clean for
// callers that parse them.
func NewLogger(w io.Writer, verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "confluence",
		Level:  level,
		Output: w,
	})
}
