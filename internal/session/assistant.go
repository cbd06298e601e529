// Package session provides the claude assistant integration.
package session

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	"github.com/hopon-cli/hopon/internal/target"
	"github.com/hopon-cli/hopon/internal/transport"
)

// noPriorSignature is the recognizable error emitted by the claude CLI when
// there is no conversation to continue. Only this signature selects the
// fresh-vs-abort prompt; any other failure is surfaced as a real error.
const noPriorSignature = "No conversation found to continue"

// ClaudeAssistant runs the claude CLI on the endpoint. The probe goes over
// the non-interactive ssh path; the interactive commands are executed inside
// the created session.
type ClaudeAssistant struct {
	profile target.Profile
	execer  Execer

	// env is forwarded into every assistant command (API token and friends).
	// Values are never logged.
	env map[string]string
}

// NewClaudeAssistant builds the production assistant.
//
// Parameters:
//   - profile: The resolved endpoint profile
//   - execer: The ssh transport for the non-interactive probe
//   - env: Secret environment forwarded to the assistant
//
// Returns:
//   - *ClaudeAssistant: The assistant
func NewClaudeAssistant(profile target.Profile, execer Execer, env map[string]string) *ClaudeAssistant {
	return &ClaudeAssistant{profile: profile, execer: execer, env: env}
}

// ContinuePrior attempts a non-interactive resumption of the most recent
// conversation and classifies the result.
func (a *ClaudeAssistant) ContinuePrior(ctx context.Context) Resumption {
	probe := transport.RemoteCommand{
		Argv: []string{"claude", "--continue", "--print", "--output-format", "json", "--max-turns", "1", "ping"},
		Env:  a.env,
	}
	stdout, stderr, code, err := a.execer.Exec(ctx, a.profile, probe)
	if err != nil {
		return Resumption{Status: ResumeFailed, Detail: err.Error()}
	}
	log.Debug("resumption probe", "target", a.profile.Name, "exit", code)

	if code == 0 && !gjson.Get(stdout, "is_error").Bool() {
		return Resumption{Status: ResumeOK}
	}

	// The CLI reports the failure either on stderr or inside the JSON
	// result payload depending on how far it got.
	detail := stderr
	if result := gjson.Get(stdout, "result"); result.Exists() {
		detail = result.String()
	}
	if strings.Contains(detail, noPriorSignature) || strings.Contains(stderr, noPriorSignature) {
		return Resumption{Status: ResumeNoPrior}
	}
	if detail == "" {
		detail = stdout
	}
	return Resumption{Status: ResumeFailed, Detail: detail}
}

// ResumeCommand returns the interactive continue command.
func (a *ClaudeAssistant) ResumeCommand() transport.RemoteCommand {
	return transport.RemoteCommand{Argv: []string{"claude", "--continue"}, Env: a.env}
}

// FreshCommand returns the interactive fresh-conversation command.
func (a *ClaudeAssistant) FreshCommand() transport.RemoteCommand {
	return transport.RemoteCommand{Argv: []string{"claude"}, Env: a.env}
}
