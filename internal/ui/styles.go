// Package ui provides terminal UI components using Charm libraries.
//
// This package contains the styling, message printing, and operator
// prompt components for the hopon CLI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Brand colors for hopon.
var (
	// Primary brand color - hopon teal
	Teal = lipgloss.Color("#14B8A6")

	// Secondary colors
	Red     = lipgloss.Color("#EF4444")
	Amber   = lipgloss.Color("#F59E0B")
	Green   = lipgloss.Color("#22C55E")
	DimGray = lipgloss.Color("#9CA3AF")
)

// Text styles.
var (
	// TitleStyle for main headings
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Teal)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// WarningStyle for warning messages
	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	// InfoStyle for informational messages
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	// DimStyle for less important text
	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// AccentStyle for highlighted fragments inside a line
	AccentStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true)

	// BannerStyle for the security warning banner
	BannerStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)
)
