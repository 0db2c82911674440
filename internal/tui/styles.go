package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	disclaimerStyle    = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	focusedLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	heroBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(0, 2)
	documentBoxStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#56526e"))
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	categoryStyle      = lipgloss.NewStyle().Padding(0, 1)
	activeCategory     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166"))
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	selectionLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe"))
)
