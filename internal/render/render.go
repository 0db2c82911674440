// Package render turns document text and answers into terminal lines or a
// browser page. Everything here is deterministic so a re-render of the same
// state produces the same output.
package render

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/muesli/reflow/wordwrap"
)

var ansiEscapeCodes = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)?`)

// TerminalSafe removes ANSI sequences and every control character except
// newline and tab, so extracted text cannot drive the terminal.
func TerminalSafe(text string) string {
	text = ansiEscapeCodes.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == '\r':
			b.WriteRune('\n')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DocumentLines sanitises text and wraps it to width columns. Tabs become four
// spaces so the viewport width math stays correct. A non-positive width
// disables wrapping.
func DocumentLines(text string, width int) []string {
	text = strings.ReplaceAll(TerminalSafe(text), "\t", "    ")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	if width > 0 {
		text = wordwrap.String(text, width)
	}
	return strings.Split(text, "\n")
}

// Wrap is DocumentLines joined back into one block.
func Wrap(text string, width int) string {
	return strings.Join(DocumentLines(text, width), "\n")
}
