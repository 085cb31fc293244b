// Package printer writes coloured CLI status output. Colour is disabled
// automatically when the output is not a terminal or NO_COLOR is set.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// Printer writes to a command's output and error streams
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New creates a Printer
func New(out, errOut io.Writer) *Printer {
	return &Printer{Out: out, Err: errOut}
}

// Success prints a message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprintln(p.Out, msg)
}

// Info prints a message in the default colour
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.Out, format+"\n", a...)
}

// Muted prints secondary detail
func (p *Printer) Muted(format string, a ...any) {
	faint.Fprintf(p.Out, format+"\n", a...)
}

// Warning prints a message in yellow with a warning prefix
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠") {
		msg = "⚠  " + msg
	}
	yellow.Fprintln(p.Err, msg)
}

// Step prints a step in a multi-step operation
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.Out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints a titled error with optional suggestions to the error stream
// and returns a plain error for cobra
func (p *Printer) Error(title, explanation string, suggestions ...string) error {
	red.Fprintf(p.Err, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.Err, "\n%s\n", explanation)
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.Err, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.Err, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.Err, "  %d. %s\n", i+1, s)
		}
	}

	return fmt.Errorf("%s", title)
}
