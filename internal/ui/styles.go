package ui

import (
	"github.com/charmbracelet/lipgloss"

	"weekboard/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// Day column on the week board
	StyleDayColumn = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// CategoryStyle returns a foreground style using the category's display
// color from the closed lookup table.
func CategoryStyle(c models.TaskCategory) lipgloss.Style {
	info := models.CategoryInfoFor(c)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color))
}

// PriorityStyle maps priorities onto the shared palette.
func PriorityStyle(p models.TaskPriority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return StyleError
	case models.PriorityLow:
		return StyleSubtle
	}
	return StyleWarning
}
