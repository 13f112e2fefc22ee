package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	phaseStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	suspectStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	clueStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	spokenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
