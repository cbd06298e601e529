// Package session provides the tmux-backed session host.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/hopon-cli/hopon/internal/target"
	"github.com/hopon-cli/hopon/internal/transport"
)

// Execer runs remote commands non-interactively. Satisfied by
// *transport.SSH; faked in tests.
type Execer interface {
	Exec(ctx context.Context, profile target.Profile, command transport.RemoteCommand) (stdout, stderr string, exitCode int, err error)
}

// TmuxHost drives a remote tmux server through the transport layer.
// Existence checks go over the non-interactive ssh path; attach and create
// use the selected interactive strategy.
type TmuxHost struct {
	profile  target.Profile
	strategy transport.Strategy
	execer   Execer
}

// NewTmuxHost builds a session host for one endpoint.
//
// Parameters:
//   - profile: The resolved endpoint profile
//   - strategy: The interactive transport strategy
//   - execer: The ssh transport for non-interactive checks
//
// Returns:
//   - *TmuxHost: The session host
func NewTmuxHost(profile target.Profile, strategy transport.Strategy, execer Execer) *TmuxHost {
	return &TmuxHost{profile: profile, strategy: strategy, execer: execer}
}

// SessionExists queries the remote tmux server for the named session.
// The "=" prefix forces an exact name match instead of tmux's default
// prefix matching.
func (h *TmuxHost) SessionExists(ctx context.Context, name string) (bool, error) {
	cmd := transport.RemoteCommand{Argv: []string{"tmux", "has-session", "-t", "=" + name}}
	_, stderr, code, err := h.execer.Exec(ctx, h.profile, cmd)
	if err != nil {
		return false, err
	}
	switch {
	case code == 0:
		return true, nil
	case code == 1 && tmuxReportsNoSession(stderr):
		return false, nil
	case code == 127:
		return false, fmt.Errorf("tmux is not installed on %s (install it remotely first)", h.profile.Destination())
	case code == 255:
		return false, fmt.Errorf("could not reach %s to check the session: %s", h.profile.Destination(), stderr)
	default:
		return false, fmt.Errorf("tmux has-session on %s exited %d: %s", h.profile.Destination(), code, stderr)
	}
}

// Attach attaches to the existing named session.
func (h *TmuxHost) Attach(name string) (int, error) {
	cmd := transport.RemoteCommand{Argv: []string{"tmux", "attach-session", "-t", "=" + name}}
	return h.strategy.ConnectAndRun(h.profile, cmd)
}

// CreateAndRun creates the named session running the command. The inner
// command is rendered once and handed to tmux as its shell-command argument.
func (h *TmuxHost) CreateAndRun(name string, command transport.RemoteCommand) (int, error) {
	outer := transport.RemoteCommand{
		Argv: []string{"tmux", "new-session", "-s", name, command.ShellLine()},
	}
	return h.strategy.ConnectAndRun(h.profile, outer)
}

// tmuxReportsNoSession recognizes the tmux failures that mean "no such
// session" rather than a broken server.
func tmuxReportsNoSession(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "can't find session") ||
		strings.Contains(s, "no server running") ||
		strings.Contains(s, "error connecting to")
}
