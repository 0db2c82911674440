package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/pdfask/internal/controller"
	"github.com/csheth/pdfask/internal/pdftext"
	"github.com/csheth/pdfask/internal/signal"
)

type extractResultMsg struct {
	path string
	doc  pdftext.Document
	err  error
}

type answerResultMsg struct {
	text string
}

type clipboardResultMsg struct {
	text string
	err  error
}

type signalMsg struct {
	event signal.Event
	ok    bool
}

var errEmptyClipboard = errors.New("clipboard is empty")

func extractJob(path string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		doc, err := pdftext.ExtractFile(path)
		if err != nil {
			return extractResultMsg{path: path, err: err}, err
		}
		return extractResultMsg{path: path, doc: doc}, nil
	}
}

// answerJob never reports an error to the bus: failures arrive as answer text.
func answerJob(ctrl controller.Controller, req controller.Request) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		return answerResultMsg{text: ctrl.Generate(ctx, req)}, nil
	}
}

func clipboardJob(read func() (string, error)) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		text, err := read()
		if err != nil {
			return clipboardResultMsg{err: err}, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return clipboardResultMsg{err: errEmptyClipboard}, errEmptyClipboard
		}
		return clipboardResultMsg{text: text}, nil
	}
}

// waitForSignal blocks on the event channel and hands the next event to Update.
func waitForSignal(events <-chan signal.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return signalMsg{event: ev, ok: ok}
	}
}

func expandPath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, `"'`)
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
