// Package ui provides message printing utilities.
package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// quietMode suppresses non-essential output when true.
var quietMode bool

// SetQuietMode enables or disables quiet mode.
//
// Parameters:
//   - quiet: Whether to suppress non-essential output
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// Println prints an empty line.
func Println() {
	if quietMode {
		return
	}
	fmt.Println()
}

// PrintSuccess prints a success message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintSuccess(format string, args ...interface{}) {
	if quietMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(SuccessStyle.Render("✓ " + msg))
}

// PrintError prints an error message. Errors are printed even in quiet mode.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+msg))
}

// PrintWarning prints a warning message. Warnings are printed even in quiet mode.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, WarningStyle.Render("⚠ "+msg))
}

// PrintInfo prints an informational message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintInfo(format string, args ...interface{}) {
	if quietMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(InfoStyle.Render(msg))
}

// PrintDim prints a dimmed message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintDim(format string, args ...interface{}) {
	if quietMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Println(DimStyle.Render(msg))
}

// PrintSecurityBanner prints a full-width framed warning that must never be
// suppressed by quiet mode. Used immediately before any connection that runs
// with reduced host identity checking.
//
// Parameters:
//   - lines: Banner body lines
func PrintSecurityBanner(lines ...string) {
	width := 72
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 20 && w < width {
		width = w
	}
	rule := strings.Repeat("─", width)
	fmt.Fprintln(os.Stderr, BannerStyle.Render(rule))
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, BannerStyle.Render("  "+line))
	}
	fmt.Fprintln(os.Stderr, BannerStyle.Render(rule))
}
