package tray

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#d16d7a")
	colorMuted  = lipgloss.Color("#6c757d")
	colorDone   = lipgloss.Color("#5f9fb0")

	statusStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(colorAccent).Padding(0, 1)
	statusIdleStyle  = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	tooltipStyle     = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	itemStyle        = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle    = lipgloss.NewStyle().PaddingLeft(1).Foreground(colorAccent).Bold(true)
	highlightStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle        = lipgloss.NewStyle().Foreground(colorDone)
	separatorStyle   = lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(2)
	breadcrumbStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	flashStyle       = lipgloss.NewStyle().Foreground(colorAccent)
	helpStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	promptBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
	promptFadeStyle  = promptBoxStyle.BorderForeground(colorMuted).Faint(true)
	promptTitleStyle = lipgloss.NewStyle().Bold(true)
)
