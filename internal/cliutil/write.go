// Package cliutil provides small helpers for CLI output.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef writes formatted report output to the writer. A failed write is
// noted on stderr instead of being returned; report output is best-effort
// and the command's exit code carries the actual result.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
