// Package ui prints the end-of-run summary to the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
)

const lineWidth = 60

// Printer writes colored status lines to an output stream.
type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Header prints a formatted header
func (p *Printer) Header(text string) {
	line := strings.Repeat("=", lineWidth)
	green.Fprintf(p.out, "\n%s\n", line)
	green.Fprintf(p.out, "%s\n", center(text, lineWidth))
	green.Fprintf(p.out, "%s\n\n", line)
}

// Step prints a step indicator
func (p *Printer) Step(stepNum, totalSteps int, text string) {
	yellow.Fprintf(p.out, "[%d/%d] %s\n", stepNum, totalSteps, text)
}

// Success prints a success message
func (p *Printer) Success(format string, args ...any) {
	green.Fprintf(p.out, "  → %s\n", fmt.Sprintf(format, args...))
}

// Info prints an info message
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, "  → %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	yellow.Fprintf(p.out, "  ⚠ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message
func (p *Printer) Error(err error) {
	red.Fprintf(p.out, "Error: %v\n", err)
}

func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	return strings.Repeat(" ", (width-len(text))/2) + text
}
