// Package session provides tests for the claude resumption probe.
package session

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// TestContinuePriorClassification tests classification of probe outcomes.
func TestContinuePriorClassification(t *testing.T) {
	tests := []struct {
		name       string
		stdout     string
		stderr     string
		exitCode   int
		execErr    error
		want       ResumeStatus
		wantDetail string
	}{
		{
			name:     "prior conversation resumes",
			stdout:   `{"is_error":false,"result":"pong"}`,
			exitCode: 0,
			want:     ResumeOK,
		},
		{
			name:     "no prior conversation in json result",
			stdout:   `{"is_error":true,"result":"No conversation found to continue"}`,
			exitCode: 1,
			want:     ResumeNoPrior,
		},
		{
			name:     "no prior conversation on stderr",
			stderr:   "Error: No conversation found to continue in this directory",
			exitCode: 1,
			want:     ResumeNoPrior,
		},
		{
			name:       "credit failure is surfaced",
			stdout:     `{"is_error":true,"result":"Credit balance is too low"}`,
			exitCode:   1,
			want:       ResumeFailed,
			wantDetail: "Credit balance is too low",
		},
		{
			name:       "auth failure on stderr is surfaced",
			stderr:     "Invalid API key",
			exitCode:   1,
			want:       ResumeFailed,
			wantDetail: "Invalid API key",
		},
		{
			name:     "is_error true despite exit zero",
			stdout:   `{"is_error":true,"result":"internal error"}`,
			exitCode: 0,
			want:     ResumeFailed,
		},
		{
			name:       "transport failure",
			execErr:    errors.New("ssh: connection lost"),
			want:       ResumeFailed,
			wantDetail: "ssh: connection lost",
		},
		{
			name:       "garbage output is surfaced verbatim",
			stdout:     "segmentation fault",
			exitCode:   139,
			want:       ResumeFailed,
			wantDetail: "segmentation fault",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execer := &fakeExecer{
				stdout:   tt.stdout,
				stderr:   tt.stderr,
				exitCode: tt.exitCode,
				err:      tt.execErr,
			}
			a := NewClaudeAssistant(sessionProfile(), execer, nil)

			got := a.ContinuePrior(context.Background())
			if got.Status != tt.want {
				t.Errorf("status = %v, want %v (detail %q)", got.Status, tt.want, got.Detail)
			}
			if tt.wantDetail != "" && !strings.Contains(got.Detail, tt.wantDetail) {
				t.Errorf("detail = %q, want it to contain %q", got.Detail, tt.wantDetail)
			}
		})
	}
}

// TestContinuePriorProbeCommand tests the probe's non-interactive shape.
func TestContinuePriorProbeCommand(t *testing.T) {
	execer := &fakeExecer{stdout: `{"is_error":false}`, exitCode: 0}
	env := map[string]string{"ANTHROPIC_API_KEY": "tok"}
	a := NewClaudeAssistant(sessionProfile(), execer, env)

	a.ContinuePrior(context.Background())
	if len(execer.commands) != 1 {
		t.Fatalf("expected one exec, got %d", len(execer.commands))
	}
	probe := execer.commands[0]
	joined := strings.Join(probe.Argv, " ")
	for _, want := range []string{"claude", "--continue", "--print", "--output-format json", "--max-turns 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("probe missing %q: %s", want, joined)
		}
	}
	if probe.Env["ANTHROPIC_API_KEY"] != "tok" {
		t.Error("probe must carry the forwarded environment")
	}
}

// TestAssistantCommandsCarryEnv tests that both interactive commands forward
// the secret environment.
func TestAssistantCommandsCarryEnv(t *testing.T) {
	env := map[string]string{"CLAUDE_CODE_OAUTH_TOKEN": "tok"}
	a := NewClaudeAssistant(sessionProfile(), &fakeExecer{}, env)

	resume := a.ResumeCommand()
	if got := strings.Join(resume.Argv, " "); got != "claude --continue" {
		t.Errorf("resume argv = %q", got)
	}
	if resume.Env["CLAUDE_CODE_OAUTH_TOKEN"] != "tok" {
		t.Error("resume command missing forwarded env")
	}

	fresh := a.FreshCommand()
	if got := strings.Join(fresh.Argv, " "); got != "claude" {
		t.Errorf("fresh argv = %q", got)
	}
	if fresh.Env["CLAUDE_CODE_OAUTH_TOKEN"] != "tok" {
		t.Error("fresh command missing forwarded env")
	}
}
