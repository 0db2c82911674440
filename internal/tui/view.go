package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/pdfask/internal/controller"
	"github.com/csheth/pdfask/internal/render"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	snap := m.state.Snapshot()
	parts := []string{m.heroView()}
	if snap.FileName != "" {
		parts = append(parts, m.documentView(snap.FileName, snap.Pages))
	}
	parts = append(parts, m.fieldsView())
	if body := strings.TrimSpace(m.answerViewport.View()); body != "" {
		parts = append(parts, m.answerViewport.View())
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.stage == stageLoading {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	loc := m.config.Locale
	return heroBoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(loc.Title),
		disclaimerStyle.Render(loc.Disclaimer),
	))
}

func (m *model) documentView(name string, pages int) string {
	header := sectionHeaderStyle.Render(fmt.Sprintf("%s (%d %s)", render.TerminalSafe(name), pages, m.config.Locale.PagesLabel))
	return lipgloss.JoinVertical(lipgloss.Left, header, documentBoxStyle.Render(m.viewport.View()))
}

func (m *model) fieldLabel(text string, f focus) string {
	if m.focus == f {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m *model) fieldsView() string {
	loc := m.config.Locale
	snap := m.state.Snapshot()
	var rows []string
	if m.focus == focusPath {
		rows = append(rows, m.fieldLabel(loc.UploadPrompt, focusPath)+" "+m.pathInput.View())
	}
	rows = append(rows,
		m.fieldLabel(loc.CredentialPrompt, focusCredential)+" "+m.credentialInput.View(),
		m.fieldLabel(loc.SelectionLabel, focusSelection)+" "+m.selectionInput.View(),
	)
	if strings.TrimSpace(snap.Selection) != "" {
		echo := previewText(render.TerminalSafe(snap.Selection), selectionPreviewLimit)
		rows = append(rows, helperStyle.Render(loc.SelectedEcho+echo))
	}
	rows = append(rows, labelStyle.Render(loc.CategoryPrompt)+" "+m.categoriesView(snap.Category))
	if m.focus != focusNone {
		rows = append(rows, helperStyle.Render(loc.HintField))
	} else {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			keyStyle.Render("g"), keyDescStyle.Render(" "+loc.GenerateLabel+"  "),
			keyStyle.Render("R"), keyDescStyle.Render(" "+loc.GenerateLabel),
		))
	}
	return strings.Join(rows, "\n")
}

func (m *model) categoriesView(current string) string {
	cats := make([]string, 0, len(m.config.Locale.Categories))
	for idx, c := range m.config.Locale.Categories {
		label := fmt.Sprintf("%d %s", idx+1, c)
		if c == current {
			cats = append(cats, activeCategory.Render(label))
		} else {
			cats = append(cats, categoryStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cats...)
}

func (m *model) modeLabel() string {
	switch {
	case m.focus != focusNone:
		return "INSERT"
	case m.mode == modeHighlight:
		return "HIGHLIGHT"
	default:
		return "NORMAL"
	}
}

func (m *model) statusBarView() string {
	snap := m.state.Snapshot()
	phase := controller.PhaseOf(m.state, controller.Inputs{Credential: snap.Credential, Selection: snap.Selection})
	stats := []string{fmt.Sprintf("Mode %s", m.modeLabel()), phase.String()}
	if m.config.ProviderName != "" {
		stats = append(stats, m.config.ProviderName)
	}
	if snap.Trigger {
		stats = append(stats, "R pending")
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) keyLegendView() string {
	hints := m.config.Locale.Keys
	var rows []string
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
