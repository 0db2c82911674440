package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/pdfask/internal/controller"
	"github.com/csheth/pdfask/internal/llm"
	"github.com/csheth/pdfask/internal/locale"
	"github.com/csheth/pdfask/internal/render"
	"github.com/csheth/pdfask/internal/session"
	"github.com/csheth/pdfask/internal/signal"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Locale locale.Locale
	// NewClient builds a provider client for the credential typed by the user.
	NewClient    func(apiKey string) (llm.Client, error)
	ProviderName string
	// Credential pre-fills the masked key field.
	Credential string
	// Path is opened on start when set.
	Path          string
	ReadClipboard func() (string, error)
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Locale.Code == "" {
		config.Locale = locale.MustLookup(locale.DefaultCode)
	}
	if config.ReadClipboard == nil {
		config.ReadClipboard = clipboard.ReadAll
	}

	pathInput := textinput.New()
	pathInput.Placeholder = pathPlaceholder
	pathInput.CharLimit = 1024
	pathInput.Width = 70

	credentialInput := textinput.New()
	credentialInput.EchoMode = textinput.EchoPassword
	credentialInput.EchoCharacter = '•'
	credentialInput.CharLimit = 256
	credentialInput.Width = 50
	credentialInput.SetValue(strings.TrimSpace(config.Credential))

	selectionInput := textinput.New()
	selectionInput.Placeholder = selectionPlaceholder
	selectionInput.CharLimit = 8000
	selectionInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	layout := newPageLayout()
	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true
	answerVP := viewport.New(layout.viewportWidth, layout.answerHeight)

	state := &session.State{}
	state.Update(func(s *session.State) {
		s.Credential = credentialInput.Value()
		if len(config.Locale.Categories) > 0 {
			s.Category = config.Locale.Categories[0]
		}
	})

	m := &model{
		config:          config,
		stage:           stageBrowse,
		mode:            modeNormal,
		layout:          layout,
		pathInput:       pathInput,
		credentialInput: credentialInput,
		selectionInput:  selectionInput,
		spinner:         spin,
		viewport:        vp,
		answerViewport:  answerVP,
		state:           state,
		signals:         signal.NewChannel(signalBuffer),
		jobBus:          newJobBus(),
		jobs:            map[jobKind]jobSnapshot{},
		ctrl:            controller.Controller{NewClient: config.NewClient, Locale: config.Locale},
		viewportDirty:   true,
		infoMessage:     config.Locale.HintOpen,
	}
	if strings.TrimSpace(config.Path) == "" {
		m.setFocus(focusPath)
	}
	return m
}

type model struct {
	config Config
	stage  stage
	mode   interactionMode
	focus  focus
	layout pageLayout

	pathInput       textinput.Model
	credentialInput textinput.Model
	selectionInput  textinput.Model
	spinner         spinner.Model
	viewport        viewport.Model
	answerViewport  viewport.Model

	state   *session.State
	signals *signal.Channel
	jobBus  *jobBus
	jobs    map[jobKind]jobSnapshot
	ctrl    controller.Controller

	viewportLines   []string
	lineCount       int
	cursorLine      int
	viewportDirty   bool
	selectionAnchor int
	selectionActive bool

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, waitForSignal(m.signals.Events())}
	if path := expandPath(m.config.Path); path != "" {
		cmds = append(cmds, m.startExtract(path))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if m.stage == stageLoading || m.stage == stageGenerating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshAnswer()
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.recordJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case extractResultMsg:
		return m, m.handleExtractResult(msg)
	case answerResultMsg:
		return m, m.handleAnswerResult(msg)
	case clipboardResultMsg:
		return m, m.handleClipboardResult(msg)
	case signalMsg:
		if !msg.ok {
			return m, nil
		}
		cmd := m.handleSignal(msg.event)
		return m, tea.Batch(cmd, waitForSignal(m.signals.Events()))
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.signals.Close()
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.focus == focusNone {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	// the document box border takes one column on each side
	m.viewport.Width = m.layout.viewportWidth - 2
	m.viewport.Height = m.layout.viewportHeight
	m.answerViewport.Width = m.layout.viewportWidth
	m.answerViewport.Height = m.layout.answerHeight
	inputWidth := m.layout.viewportWidth - 24
	if inputWidth < 20 {
		inputWidth = 20
	}
	m.pathInput.Width = inputWidth
	m.selectionInput.Width = inputWidth
	m.credentialInput.Width = inputWidth
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.refreshAnswer()
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus != focusNone {
		return m.handleFieldKey(key)
	}
	return m.handleBrowseKey(key)
}

func (m *model) handleFieldKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.commitField()
		m.setFocus(focusNone)
		return m, nil
	case tea.KeyEnter:
		current := m.focus
		m.commitField()
		m.setFocus(focusNone)
		switch current {
		case focusPath:
			path := expandPath(m.pathInput.Value())
			if path == "" {
				m.errorMessage = m.config.Locale.UploadPrompt
				m.setFocus(focusPath)
				return m, nil
			}
			return m, m.startExtract(path)
		case focusSelection:
			return m, m.runCycle(true)
		}
		return m, nil
	}
	var cmd tea.Cmd
	switch m.focus {
	case focusPath:
		m.pathInput, cmd = m.pathInput.Update(key)
	case focusCredential:
		m.credentialInput, cmd = m.credentialInput.Update(key)
	case focusSelection:
		m.selectionInput, cmd = m.selectionInput.Update(key)
	}
	return m, cmd
}

func (m *model) handleBrowseKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	loc := m.config.Locale
	switch keyStr := key.String(); keyStr {
	case "q":
		m.signals.Close()
		return m, tea.Quit
	case "esc":
		if m.mode == modeHighlight {
			m.toggleHighlightMode()
		}
	case "o":
		m.setFocus(focusPath)
	case "k":
		m.setFocus(focusCredential)
	case "s":
		m.setFocus(focusSelection)
	case "c":
		m.cycleCategory(1)
	case "g":
		return m, m.runCycle(true)
	case "r", "R":
		m.signals.Emit(signal.Event{Kind: signal.KindTrigger})
	case "v":
		m.toggleHighlightMode()
	case "y":
		m.captureHighlight()
	case "p":
		return m, m.jobBus.Start(jobKindClipboard, clipboardJob(m.config.ReadClipboard))
	case "?":
		m.helpVisible = !m.helpVisible
	case "up":
		m.moveCursor(-1)
	case "down":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.viewport.Height)
	case "pgdown":
		m.moveCursor(m.viewport.Height)
	case "home":
		m.moveCursor(-m.lineCount)
	case "end":
		m.moveCursor(m.lineCount)
	default:
		if len(keyStr) == 1 && keyStr[0] >= '1' && keyStr[0] <= '9' {
			idx := int(keyStr[0] - '1')
			if idx < len(loc.Categories) {
				m.setCategory(loc.Categories[idx])
			}
		}
	}
	return m, nil
}

func (m *model) setFocus(f focus) {
	m.pathInput.Blur()
	m.credentialInput.Blur()
	m.selectionInput.Blur()
	m.focus = f
	switch f {
	case focusPath:
		m.pathInput.Focus()
	case focusCredential:
		m.credentialInput.Focus()
	case focusSelection:
		m.selectionInput.Focus()
	}
}

// commitField copies the focused input into the session state.
func (m *model) commitField() {
	switch m.focus {
	case focusCredential:
		value := m.credentialInput.Value()
		m.state.Update(func(s *session.State) { s.Credential = value })
	case focusSelection:
		value := m.selectionInput.Value()
		m.state.Update(func(s *session.State) { s.Selection = value })
	}
}

func (m *model) setCategory(label string) {
	label = m.config.Locale.Category(label)
	m.state.Update(func(s *session.State) { s.Category = label })
}

func (m *model) cycleCategory(delta int) {
	cats := m.config.Locale.Categories
	if len(cats) == 0 {
		return
	}
	idx := m.config.Locale.CategoryIndex(m.state.Snapshot().Category)
	idx = (idx + delta + len(cats)) % len(cats)
	m.setCategory(cats[idx])
}

func (m *model) startExtract(path string) tea.Cmd {
	m.stage = stageLoading
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf(m.config.Locale.HintExtracting, filepath.Base(path))
	return tea.Batch(m.spinner.Tick, m.jobBus.Start(jobKindExtract, extractJob(path)))
}

func (m *model) handleExtractResult(msg extractResultMsg) tea.Cmd {
	m.stage = stageBrowse
	if msg.err != nil {
		m.errorMessage = render.TerminalSafe(msg.err.Error())
		m.infoMessage = m.config.Locale.HintOpen
		return nil
	}
	name := filepath.Base(msg.path)
	controller.Apply(m.state, signal.Event{Kind: signal.KindDocument, Text: msg.doc.Text()})
	m.state.Update(func(s *session.State) {
		s.FileName = name
		s.Pages = msg.doc.PageCount()
		s.Warning = ""
	})
	m.selectionInput.SetValue("")
	m.pathInput.SetValue("")
	m.mode = modeNormal
	m.selectionActive = false
	m.cursorLine = 0
	m.viewport.SetYOffset(0)
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf(m.config.Locale.HintLoaded, render.TerminalSafe(name), msg.doc.PageCount())
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.refreshAnswer()
	return nil
}

func (m *model) handleClipboardResult(msg clipboardResultMsg) tea.Cmd {
	if msg.err != nil {
		m.infoMessage = fmt.Sprintf(m.config.Locale.HintClipboard, msg.err)
		return nil
	}
	m.signals.Emit(signal.Event{Kind: signal.KindSelection, Text: msg.text})
	m.infoMessage = m.config.Locale.HintPasted
	return nil
}

// handleSignal applies an event from the channel and lets a pending trigger
// fire.
func (m *model) handleSignal(ev signal.Event) tea.Cmd {
	controller.Apply(m.state, ev)
	switch ev.Kind {
	case signal.KindSelection:
		m.selectionInput.SetValue(ev.Text)
		return m.runCycle(false)
	case signal.KindTrigger:
		return m.runCycle(false)
	case signal.KindDocument:
		m.markViewportDirty()
	}
	return nil
}

// runCycle evaluates the current inputs once. pressed is a direct press of the
// generate control.
func (m *model) runCycle(pressed bool) tea.Cmd {
	snap := m.state.Snapshot()
	d := controller.Decide(m.state, controller.Inputs{
		Credential: snap.Credential,
		Selection:  snap.Selection,
		Category:   snap.Category,
		Pressed:    pressed,
	})
	switch d.Action {
	case controller.ActionBusy:
		m.infoMessage = m.config.Locale.BusyText
	case controller.ActionWarn:
		text := controller.WarningText(m.config.Locale, d.Warning)
		m.state.Update(func(s *session.State) { s.Warning = text })
		m.refreshAnswer()
	case controller.ActionGenerate:
		m.stage = stageGenerating
		m.errorMessage = ""
		m.refreshAnswer()
		return tea.Batch(m.spinner.Tick, m.jobBus.Start(jobKindAnswer, answerJob(m.ctrl, d.Request)))
	}
	return nil
}

func (m *model) handleAnswerResult(msg answerResultMsg) tea.Cmd {
	controller.Finish(m.state)
	m.state.Update(func(s *session.State) {
		s.Answer = msg.text
		s.Warning = ""
	})
	m.stage = stageBrowse
	m.refreshAnswer()
	m.answerViewport.GotoTop()
	return nil
}

func (m *model) refreshAnswer() {
	m.answerViewport.SetContent(m.buildAnswerContent())
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	snap := m.state.Snapshot()
	m.viewportLines = render.DocumentLines(snap.Text, m.viewport.Width)
	m.lineCount = len(m.viewportLines)
	if m.cursorLine >= m.lineCount {
		m.cursorLine = m.lineCount - 1
	}
	if m.cursorLine < 0 {
		m.cursorLine = 0
	}
	start, end, hasSelection := m.selectionRange()
	m.viewport.SetContent(applyLineHighlights(m.viewportLines, m.cursorLine, start, end, hasSelection))
}

func (m *model) ensureCursorVisible() {
	if m.lineCount == 0 {
		return
	}
	line := m.cursorLine
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
		return
	}
	lowerBound := m.viewport.YOffset + m.viewport.Height - 1
	if line > lowerBound {
		target := line - m.viewport.Height + 1
		if target < 0 {
			target = 0
		}
		m.viewport.SetYOffset(target)
	}
}

func (m *model) moveCursor(delta int) {
	if m.lineCount == 0 {
		return
	}
	target := m.cursorLine + delta
	if target < 0 {
		target = 0
	}
	if target >= m.lineCount {
		target = m.lineCount - 1
	}
	if target == m.cursorLine {
		return
	}
	m.cursorLine = target
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.ensureCursorVisible()
}

func (m *model) toggleHighlightMode() {
	switch m.mode {
	case modeHighlight:
		m.mode = modeNormal
		m.selectionActive = false
		m.infoMessage = ""
	default:
		if m.lineCount == 0 {
			return
		}
		m.mode = modeHighlight
		m.selectionAnchor = m.cursorLine
		m.selectionActive = true
		m.infoMessage = m.config.Locale.HintHighlight
	}
	m.markViewportDirty()
	m.refreshViewportIfDirty()
}

func (m *model) selectionRange() (int, int, bool) {
	if !m.selectionActive || m.lineCount == 0 {
		return 0, 0, false
	}
	start, end := m.selectionAnchor, m.cursorLine
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end >= m.lineCount {
		end = m.lineCount - 1
	}
	return start, end, true
}

// selectedText joins the highlighted wrapped lines back into one passage.
func (m *model) selectedText() string {
	start, end, ok := m.selectionRange()
	if !ok {
		return ""
	}
	var parts []string
	for i := start; i <= end && i < len(m.viewportLines); i++ {
		if line := strings.TrimSpace(m.viewportLines[i]); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

func (m *model) captureHighlight() {
	text := m.selectedText()
	if text == "" {
		m.infoMessage = m.config.Locale.WarnEmptySelection
		return
	}
	m.signals.Emit(signal.Event{Kind: signal.KindSelection, Text: text})
	m.mode = modeNormal
	m.selectionActive = false
	m.infoMessage = m.config.Locale.HintCaptured
	m.markViewportDirty()
	m.refreshViewportIfDirty()
}
