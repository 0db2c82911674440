package tui

import (
	"strings"

	"github.com/csheth/pdfask/internal/render"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	answerHeight   int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 16,
		answerHeight:   8,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	// title, disclaimer, field rows and the status bar
	const chrome = 10
	usable := height - chrome
	if usable < 10 {
		usable = 10
	}
	l.answerHeight = usable / 3
	if l.answerHeight < 4 {
		l.answerHeight = 4
	}
	l.viewportHeight = usable - l.answerHeight
	if l.viewportHeight < 6 {
		l.viewportHeight = 6
	}
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// buildAnswerContent renders the warning, the answer heading and the answer
// body for the lower pane.
func (m *model) buildAnswerContent() string {
	snap := m.state.Snapshot()
	cb := &contentBuilder{}
	wrap := m.wrapWidth(2)
	if snap.Warning != "" {
		cb.WriteString(warningStyle.Render(snap.Warning))
		cb.WriteRune('\n')
	}
	if m.stage == stageGenerating {
		cb.WriteString(helperStyle.Render(m.spinner.View() + " " + m.config.Locale.BusyText))
		cb.WriteRune('\n')
		return cb.String()
	}
	if snap.Answer == "" {
		return cb.String()
	}
	if cb.Line() > 0 {
		cb.WriteRune('\n')
	}
	cb.WriteString(sectionHeaderStyle.Render(m.config.Locale.AnswerHeading))
	cb.WriteRune('\n')
	cb.WriteString(render.Wrap(snap.Answer, wrap))
	cb.WriteRune('\n')
	return cb.String()
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func applyLineHighlights(lines []string, cursor int, selectionStart, selectionEnd int, hasSelection bool) string {
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, len(lines))
	for idx, line := range lines {
		inSelection := hasSelection && idx >= selectionStart && idx <= selectionEnd
		switch {
		case idx == cursor:
			out[idx] = currentLineStyle.Render(line)
		case inSelection:
			out[idx] = selectionLineStyle.Render(line)
		default:
			out[idx] = line
		}
	}
	return strings.Join(out, "\n")
}

func previewText(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
