// Package ui provides interactive input components.
package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Confirmer is a human-in-the-loop gate: a single yes/no question that blocks
// until the operator answers. Security-relevant confirmations go through this
// interface so tests can script the answers.
type Confirmer interface {
	// Confirm asks a yes/no question and blocks until answered.
	Confirm(message string, defaultYes bool) (bool, error)

	// Acknowledge blocks until the operator presses enter, so diagnostic
	// output can be read before the terminal disappears.
	Acknowledge(message string) error
}

// TerminalConfirmer prompts on the controlling terminal. When stdin is not a
// terminal it returns the default answer without prompting, so non-interactive
// invocations never hang.
type TerminalConfirmer struct{}

// Confirm displays a yes/no confirmation prompt.
//
// Parameters:
//   - message: The prompt message to display
//   - defaultYes: Whether the default is yes (true) or no (false)
//
// Returns:
//   - bool: True if user confirmed, false otherwise
//   - error: Any error that occurred
func (TerminalConfirmer) Confirm(message string, defaultYes bool) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return defaultYes, nil
	}

	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}

	input, err := Prompt(fmt.Sprintf("%s %s", message, suffix))
	if err != nil {
		return false, err
	}

	input = strings.ToLower(strings.TrimSpace(input))

	if input == "" {
		return defaultYes, nil
	}

	return input == "y" || input == "yes", nil
}

// Acknowledge waits for the operator to press enter.
//
// Parameters:
//   - message: The message to display before waiting
//
// Returns:
//   - error: Any error that occurred
func (TerminalConfirmer) Acknowledge(message string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil
	}
	_, err := Prompt(message)
	return err
}

// Prompt displays a prompt and reads user input.
//
// Parameters:
//   - message: The prompt message to display
//
// Returns:
//   - string: The user's input
//   - error: Any error that occurred
func Prompt(message string) (string, error) {
	fmt.Printf("%s ", InfoStyle.Render(message))

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(input), nil
}
