// Package transport connects to an endpoint and runs a remote command over
// the best available interactive transport.
//
// Remote commands are structured descriptions (ordered argument list plus an
// environment map), not shell blobs. Rendering to a shell line happens in
// exactly one place so there are no ad-hoc escaping concerns.
package transport

import (
	"sort"
	"strings"
)

// RemoteCommand describes a command to run on the endpoint.
type RemoteCommand struct {
	// Argv is the ordered argument list, command name first.
	Argv []string

	// Env holds environment variables injected for the command. Values are
	// forwarded verbatim and must never be logged; use Redacted for any
	// diagnostic output.
	Env map[string]string
}

// ShellLine renders the command for a remote shell. Environment variables are
// exported before the command so they survive process managers (tmux) that
// re-exec the command line.
//
// Returns:
//   - string: The quoted shell command line
func (c RemoteCommand) ShellLine() string {
	var b strings.Builder
	for _, key := range c.envKeys() {
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(shQuote(c.Env[key]))
		b.WriteString(" ")
	}
	parts := make([]string, 0, len(c.Argv))
	for _, arg := range c.Argv {
		parts = append(parts, shQuote(arg))
	}
	b.WriteString(strings.Join(parts, " "))
	return b.String()
}

// Redacted renders the command with every environment value masked, for
// debug logging.
//
// Returns:
//   - string: The command line with env values replaced by ****
func (c RemoteCommand) Redacted() string {
	var b strings.Builder
	for _, key := range c.envKeys() {
		b.WriteString(key)
		b.WriteString("=**** ")
	}
	b.WriteString(strings.Join(c.Argv, " "))
	return b.String()
}

// envKeys returns the env map keys in stable order.
func (c RemoteCommand) envKeys() []string {
	keys := make([]string, 0, len(c.Env))
	for key := range c.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// shQuote single-quote escapes a string for a POSIX shell.
func shQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`&;|<>(){}*?[]~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
