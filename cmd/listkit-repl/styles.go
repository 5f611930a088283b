package main

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorSubtext = lipgloss.Color("#a6adc8")
	colorGreen   = lipgloss.Color("#a6e3a1")
	colorRed     = lipgloss.Color("#f38ba8")
	colorPeach   = lipgloss.Color("#fab387")
	colorBlue    = lipgloss.Color("#89b4fa")

	promptStyle = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	errStyle    = lipgloss.NewStyle().Foreground(colorRed)
	labelStyle  = lipgloss.NewStyle().Foreground(colorSubtext)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	cursorStyle = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(colorBlue).Bold(true).Underline(true)
)
