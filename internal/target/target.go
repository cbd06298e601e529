// Package target resolves endpoint names to connection profiles.
//
// A target is a named endpoint (a local container or a remote host) that
// hopon can connect to. The set of valid names is closed: the built-in
// targets below, optionally extended or overridden by ~/.config/hopon/targets.yaml.
package target

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTarget is returned when a name does not resolve to any target.
var ErrUnknownTarget = errors.New("unknown target")

// Profile holds the resolved connection parameters for one endpoint.
// Immutable once resolved; lives for a single invocation.
type Profile struct {
	// Name is the target name the profile was resolved from.
	Name string

	// Address is the hostname or IP address to connect to.
	Address string

	// Port is the SSH port.
	Port int

	// Principal is the remote login user.
	Principal string

	// KeyLabel is the known-hosts label under which this endpoint's host key
	// fingerprint is cached. Defaults to the address, or "[address]:port" for
	// non-standard ports, matching OpenSSH's known_hosts convention.
	KeyLabel string
}

// Destination returns the user@host argument for ssh/mosh.
//
// Returns:
//   - string: The principal@address destination
func (p Profile) Destination() string {
	return fmt.Sprintf("%s@%s", p.Principal, p.Address)
}

// DefaultName is the target used when no name is given on the command line.
const DefaultName = "local"

// builtins is the built-in closed set of targets.
var builtins = map[string]Profile{
	"local": {
		Name:      "local",
		Address:   "127.0.0.1",
		Port:      2222,
		Principal: "dev",
	},
	"hunter": {
		Name:      "hunter",
		Address:   "hunter",
		Port:      22,
		Principal: "dev",
	},
}

// Resolver maps target names to profiles.
type Resolver struct {
	profiles    map[string]Profile
	defaultName string
}

// NewResolver builds a resolver over the built-in target set, applying any
// overrides from the optional targets file.
//
// Parameters:
//   - overrides: Parsed targets file, or nil when absent
//
// Returns:
//   - *Resolver: The resolver
func NewResolver(overrides *File) *Resolver {
	r := &Resolver{
		profiles:    make(map[string]Profile, len(builtins)),
		defaultName: DefaultName,
	}
	for name, p := range builtins {
		r.profiles[name] = withKeyLabel(p)
	}
	if overrides != nil {
		for name, t := range overrides.Targets {
			r.profiles[name] = withKeyLabel(t.profile(name))
		}
		if overrides.Default != "" {
			r.defaultName = overrides.Default
		}
	}
	return r
}

// Resolve maps a name to a profile. An empty name selects the default target.
//
// Parameters:
//   - name: The target name from the command line
//
// Returns:
//   - Profile: The resolved profile
//   - error: ErrUnknownTarget (wrapped with the valid names) if unrecognized
func (r *Resolver) Resolve(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = r.defaultName
	}
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (valid targets: %s)", ErrUnknownTarget, name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names returns the sorted list of resolvable target names.
//
// Returns:
//   - []string: Sorted target names
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultTarget returns the name selected when no argument is given.
//
// Returns:
//   - string: The default target name
func (r *Resolver) DefaultTarget() string {
	return r.defaultName
}

// withKeyLabel fills in the known-hosts label when not explicitly set.
func withKeyLabel(p Profile) Profile {
	if p.KeyLabel != "" {
		return p
	}
	if p.Port != 0 && p.Port != 22 {
		p.KeyLabel = fmt.Sprintf("[%s]:%d", p.Address, p.Port)
	} else {
		p.KeyLabel = p.Address
	}
	return p
}
