// Package output formats news-cli diagnostics. Standard output is
// reserved for raw API responses, so every printer method writes to
// stderr.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer handles human-readable messages on stderr.
type Printer struct {
	err       io.Writer
	useColors bool
}

// ResolveColors decides whether stderr messages are colored. An explicit
// --no-color wins, then the NO_COLOR convention, then TERM=dumb.
func ResolveColors(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// NewPrinter creates a printer writing to stderr.
func NewPrinter(useColors bool) *Printer {
	return &Printer{
		err:       os.Stderr,
		useColors: useColors,
	}
}

// NewPrinterWithWriter creates a printer writing to w instead of stderr.
func NewPrinterWithWriter(w io.Writer, useColors bool) *Printer {
	return &Printer{
		err:       w,
		useColors: useColors,
	}
}

// Info prints a progress message.
func (p *Printer) Info(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.err, format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, format+"\n", args...)
	}
}

// Warning prints a non-fatal problem.
func (p *Printer) Warning(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
	}
}
