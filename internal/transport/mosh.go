// Package transport provides the resilient mosh strategy.
package transport

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hopon-cli/hopon/internal/target"
)

// Mosh is the resilient strategy: it tolerates network interface changes and
// transient disconnects during the interactive session. It wraps the ssh
// strategy internally for its control connection, so host key handling is
// identical to the fallback.
type Mosh struct {
	ssh *SSH
}

// NewMosh builds the mosh strategy over an ssh control connection.
//
// Parameters:
//   - ssh: The ssh strategy providing the control-connection arguments
//
// Returns:
//   - *Mosh: The strategy
func NewMosh(ssh *SSH) *Mosh {
	return &Mosh{ssh: ssh}
}

// Name returns the strategy name.
func (m *Mosh) Name() string { return "mosh" }

// ConnectAndRun opens a roaming-tolerant interactive session running the
// remote command and hands it the local terminal until it ends.
//
// Parameters:
//   - profile: The resolved endpoint profile
//   - command: The structured remote command
//
// Returns:
//   - int: The remote exit status, propagated unchanged
//   - error: If mosh could not be started at all
func (m *Mosh) ConnectAndRun(profile target.Profile, command RemoteCommand) (int, error) {
	// mosh joins the trailing arguments with spaces and runs them through
	// the remote shell, so the single pre-rendered line is passed as-is.
	sshLine := "ssh " + strings.Join(m.ssh.baseArgs(profile), " ")
	args := []string{
		fmt.Sprintf("--ssh=%s", sshLine),
		profile.Destination(),
		"--",
		command.ShellLine(),
	}
	log.Debug("mosh connect", "target", profile.Name, "command", command.Redacted())

	cmd := exec.Command("mosh", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to start mosh: %w", err)
	}
	return 0, nil
}
