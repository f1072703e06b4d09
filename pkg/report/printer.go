// Package report writes the outcome of a harness run: a human readable stream
// and an optional machine readable summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const errorRule = "=================================="

// Printer writes the report stream. Status words are colored when enabled.
type Printer struct {
	w io.Writer

	okColor    *color.Color
	badColor   *color.Color
	errorColor *color.Color
	noteColor  *color.Color

	diff *highlighter
}

// NewPrinter returns a printer writing to w
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:          w,
		okColor:    color.New(color.FgGreen),
		badColor:   color.New(color.FgRed, color.Bold),
		errorColor: color.New(color.FgRed, color.Bold),
		noteColor:  color.New(color.FgYellow),
		diff:       newHighlighter(colored),
	}

	for _, c := range []*color.Color{p.okColor, p.badColor, p.errorColor, p.noteColor} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// Text writes text as is
func (p *Printer) Text(text string) {
	io.WriteString(p.w, text)
}

func (p *Printer) OK() {
	p.Println(p.okColor.Sprint("OK"))
}

// Different reports a mismatch followed by the diff between rulers
func (p *Printer) Different(diff string) {
	p.Println(p.badColor.Sprint("DIFFERENT"))
	p.Println("----")
	p.Text(p.diff.Highlight(diff))
	if diff != "" && !strings.HasSuffix(diff, "\n") {
		p.Println()
	}
	p.Println("----")
}

// Mismatch reports a wrong answer from the compiler under test
func (p *Printer) Mismatch(format string, args ...any) {
	p.Println(p.badColor.Sprint("MISMATCH: ") + fmt.Sprintf(format, args...))
}

// Note reports something worth attention that does not fail the test
func (p *Printer) Note(format string, args ...any) {
	p.Println(p.noteColor.Sprintf(format, args...))
}

// Missing reports an input file that could not be found
func (p *Printer) Missing(path string) {
	p.Println(p.errorColor.Sprint("ERROR:") + fmt.Sprintf(" input file %v does not exist!", path))
}

// ErrorBlock reports an error that stopped a test file. Whatever the failing
// program printed goes first.
func (p *Printer) ErrorBlock(file string, err error, output string) {
	if output != "" {
		p.Println(output)
	}
	p.Println()
	p.Println(errorRule)
	p.Println()
	p.Println(fmt.Sprintf("%v: ", file) + p.errorColor.Sprint("ERROR:") + fmt.Sprintf(" %v", err))
	p.Println()
	p.Println(errorRule)
	p.Println()
}
