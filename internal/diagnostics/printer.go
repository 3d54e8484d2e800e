// Package diagnostics renders CLI output, coloring it when the
// destination is a terminal.
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
)

// Printer writes report lines to a single destination.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter returns a printer for the file, enabling ANSI color when the
// file is a terminal.
func NewPrinter(f *os.File) *Printer {
	color := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &Printer{out: f, color: color}
}

// NewWriterPrinter returns an uncolored printer over an arbitrary writer.
func NewWriterPrinter(w io.Writer) *Printer {
	return &Printer{out: w}
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// Infof writes a plain line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Dimf writes a de-emphasized line.
func (p *Printer) Dimf(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(ansiDim, fmt.Sprintf(format, args...)))
}

// Passf writes a green-tagged line.
func (p *Printer) Passf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.paint(ansiGreen, "PASS"), fmt.Sprintf(format, args...))
}

// Failf writes a red-tagged line.
func (p *Printer) Failf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.paint(ansiRed, "FAIL"), fmt.Sprintf(format, args...))
}

// Errorf writes an error line.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.paint(ansiRed, "error:"), fmt.Sprintf(format, args...))
}
