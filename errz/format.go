package errz

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/wonton/color"
)

// Formatter renders emission errors for terminals.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorErrorBold = color.BrightRed
	colorError     = color.Red
	colorCode      = color.BrightBlack
	colorLocation  = color.Cyan
	colorNote      = color.BrightBlue
)

func (f *Formatter) paint(apply func(string) string, s string) string {
	if !f.UseColor {
		return s
	}
	return apply(s)
}

// Format renders a single error. Errors that are not EmitErrors are
// rendered as a plain header.
func (f *Formatter) Format(err error) string {
	var b strings.Builder
	e, ok := err.(*EmitError)
	if !ok {
		b.WriteString(f.paint(colorErrorBold.Apply, "error"))
		b.WriteString(f.paint(colorError.Apply, ": "))
		b.WriteString(err.Error())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(f.paint(colorErrorBold.Apply, "error"))
	if e.Code != "" {
		b.WriteString(f.paint(colorCode.Apply, fmt.Sprintf("[%s]", e.Code)))
	}
	b.WriteString(f.paint(colorError.Apply, ": "))
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if !e.Location.IsZero() {
		b.WriteString("  ")
		b.WriteString(f.paint(colorLocation.Apply, "-->"))
		b.WriteString(" ")
		b.WriteString(f.paint(colorLocation.Apply, e.Location.String()))
		b.WriteString("\n")
	}
	if e.Location.Source != "" {
		b.WriteString("   | ")
		b.WriteString(e.Location.Source)
		b.WriteString("\n")
		if e.Location.Column > 0 {
			b.WriteString("   | ")
			b.WriteString(strings.Repeat(" ", e.Location.Column-1))
			b.WriteString(f.paint(colorErrorBold.Apply, "^"))
			b.WriteString("\n")
		}
	}
	if e.Method != "" {
		b.WriteString("   = ")
		b.WriteString(f.paint(colorNote.Apply, "note"))
		b.WriteString(": while emitting ")
		b.WriteString(e.Method)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAll renders every error in the list, numbering them when there is
// more than one.
func (f *Formatter) FormatAll(errs []error) string {
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(errs) > 1 {
			b.WriteString(f.paint(colorCode.Apply, fmt.Sprintf("[%d/%d] ", i+1, len(errs))))
		}
		b.WriteString(f.Format(err))
	}
	return b.String()
}
