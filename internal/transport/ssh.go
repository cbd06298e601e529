// Package transport provides the standard ssh strategy.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hopon-cli/hopon/internal/target"
)

// SSH is the fallback strategy: a standard reliable transport with no
// roaming tolerance, always available. It also serves as the non-interactive
// execution path for remote probes regardless of which interactive strategy
// was selected.
type SSH struct {
	opts Options
}

// NewSSH builds the ssh strategy.
//
// Parameters:
//   - opts: Transport options for this invocation
//
// Returns:
//   - *SSH: The strategy
func NewSSH(opts Options) *SSH {
	return &SSH{opts: opts}
}

// Name returns the strategy name.
func (s *SSH) Name() string { return "ssh" }

// baseArgs returns the common ssh arguments for a profile.
func (s *SSH) baseArgs(profile target.Profile) []string {
	args := []string{
		"-p", strconv.Itoa(profile.Port),
	}
	if s.opts.Permissive {
		// Reduced identity checking, selected only through the verifier's
		// operator-confirmed escape hatch.
		args = append(args,
			"-o", "StrictHostKeyChecking=no",
			"-o", "UserKnownHostsFile=/dev/null",
			"-o", "LogLevel=ERROR",
		)
	} else {
		// First contact records the host key; anything else must match.
		args = append(args, "-o", "StrictHostKeyChecking=accept-new")
	}
	return args
}

// ConnectAndRun opens an interactive session running the remote command and
// hands it the local terminal until it ends.
//
// Parameters:
//   - profile: The resolved endpoint profile
//   - command: The structured remote command
//
// Returns:
//   - int: The remote exit status, propagated unchanged
//   - error: If ssh could not be started at all
func (s *SSH) ConnectAndRun(profile target.Profile, command RemoteCommand) (int, error) {
	args := append(s.baseArgs(profile), "-t", profile.Destination(), command.ShellLine())
	log.Debug("ssh connect", "target", profile.Name, "command", command.Redacted())

	cmd := exec.Command("ssh", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to start ssh: %w", err)
	}
	return 0, nil
}

// Exec runs a remote command non-interactively and captures its output.
// Used for session existence checks and the resumption probe.
//
// Parameters:
//   - ctx: Context bounding the round-trip
//   - profile: The resolved endpoint profile
//   - command: The structured remote command
//
// Returns:
//   - string: Trimmed combined stdout
//   - string: Trimmed stderr
//   - int: The remote exit status
//   - error: If ssh could not be started at all
func (s *SSH) Exec(ctx context.Context, profile target.Profile, command RemoteCommand) (string, string, int, error) {
	args := append(s.baseArgs(profile), "-o", "BatchMode=yes", profile.Destination(), command.ShellLine())
	log.Debug("ssh exec", "target", profile.Name, "command", command.Redacted())

	cmd := exec.CommandContext(ctx, "ssh", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return "", "", 1, fmt.Errorf("failed to start ssh: %w", err)
		}
	}
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), exitCode, nil
}
