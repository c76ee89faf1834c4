// Package token holds source positions carried by bound nodes so emission
// errors can point back at the code the binder resolved.
package token

import "github.com/deepnoodle-ai/ilemit/errz"

// Position points to a particular location in an input file.
type Position struct {
	Line   int    // 0-indexed line number
	Column int    // 0-indexed column number
	File   string // filename
	Source string // text of the line, when known
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0
}

// Location converts the position to an error location. Invalid positions
// yield the zero location.
func (p Position) Location() errz.SourceLocation {
	if !p.IsValid() {
		return errz.SourceLocation{}
	}
	return errz.SourceLocation{
		Filename: p.File,
		Line:     p.LineNumber(),
		Column:   p.ColumnNumber(),
		Source:   p.Source,
	}
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}
