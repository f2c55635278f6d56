package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hippiehunter/sqlparser/parser"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	caretColor = color.New(color.FgRed)
	lineColor  = color.New(color.Faint)
)

// writeDiagnostic prints err for the given source. Parse errors carry a
// span, so they get a source excerpt with a caret line underneath; other
// errors print as a single line.
func writeDiagnostic(w io.Writer, filename, src string, err error) {
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		errorLabel.Fprint(w, "error: ")
		fmt.Fprintln(w, err)
		return
	}

	start := parseErr.Span.Start
	errorLabel.Fprintf(w, "%s:%d:%d: ", filename, start.Line, start.Column)
	fmt.Fprintln(w, err)

	line, ok := sourceLine(src, start.Line)
	if !ok {
		return
	}
	lineColor.Fprintf(w, "  %s\n", line)

	width := parseErr.Span.End.Column - start.Column
	if parseErr.Span.End.Line != start.Line || width < 1 {
		width = 1
	}
	caretColor.Fprintf(w, "  %s%s\n", strings.Repeat(" ", start.Column-1), strings.Repeat("^", width))
}

// sourceLine returns the 1-based line of src.
func sourceLine(src string, n int) (string, bool) {
	lines := strings.Split(src, "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}
