package tui

type stage int

const (
	stageBrowse stage = iota
	stageLoading
	stageGenerating
)

type interactionMode int

const (
	modeNormal interactionMode = iota
	modeHighlight
)

// focus is the input field that currently receives keystrokes.
type focus int

const (
	focusNone focus = iota
	focusPath
	focusCredential
	focusSelection
)

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	selectionPreviewLimit     = 240
	signalBuffer              = 16
)

const (
	pathPlaceholder      = "path/to/document.pdf"
	selectionPlaceholder = "Type or paste the passage to ask about…"
)
