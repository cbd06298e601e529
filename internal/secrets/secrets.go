// Package secrets collects the secret material forwarded into the remote
// assistant's environment.
//
// Forwarding is opt-in and allowlisted: only the keys below are read, from
// the process environment first and an optional local key-value file second.
// Values travel verbatim into the remote command environment and are never
// logged or written to disk on the remote side.
package secrets

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forwardedKeys is the closed allowlist of environment keys hopon forwards.
var forwardedKeys = []string{
	"ANTHROPIC_API_KEY",
	"CLAUDE_CODE_OAUTH_TOKEN",
	"DATABASE_URL",
}

// DefaultFilePath returns the standard location of the optional secrets file.
//
// Returns:
//   - string: Path to ~/.config/hopon/secrets.env
//   - error: If the home directory cannot be determined
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hopon", "secrets.env"), nil
}

// Forwarded assembles the environment to inject into the remote command.
// Process environment wins over the file; unset keys are simply absent.
//
// Parameters:
//   - filePath: Path to the optional secrets file ("" to skip)
//
// Returns:
//   - map[string]string: Keys to forward, possibly empty
//   - error: If the file exists but cannot be read
func Forwarded(filePath string) (map[string]string, error) {
	env := make(map[string]string)

	if filePath != "" {
		fromFile, err := loadFile(filePath)
		if err != nil {
			return nil, err
		}
		for _, key := range forwardedKeys {
			if v, ok := fromFile[key]; ok && v != "" {
				env[key] = v
			}
		}
	}

	for _, key := range forwardedKeys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			env[key] = v
		}
	}

	return env, nil
}

// loadFile parses a KEY=VALUE file. Blank lines and # comments are skipped;
// keys outside the allowlist are ignored. A missing file is not an error.
func loadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("secrets file %s: line %d is not KEY=VALUE", path, lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}
	return values, nil
}

// Redact masks every forwarded secret value appearing in text. Used before
// any diagnostic output that might embed a rendered command.
//
// Parameters:
//   - text: The text to scrub
//   - env: The forwarded environment
//
// Returns:
//   - string: The text with secret values replaced by ****
func Redact(text string, env map[string]string) string {
	for _, value := range env {
		if value == "" {
			continue
		}
		text = strings.ReplaceAll(text, value, "****")
	}
	return text
}
