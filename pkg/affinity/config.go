package affinity

import (
	"slices"
	"strings"
)

// DefaultShellPackage is the package path of the well-known shell package
// whose Package.GetService and ServiceProvider members require the main thread.
const DefaultShellPackage = "microsoft.com/visualstudio/shell"

// Config holds the name sets of one analysis session. It is immutable once
// built and may be shared between concurrent passes.
type Config struct {
	asserting    map[string]struct{}
	switching    map[string]struct{}
	requiring    []string
	shellPackage string
}

// ConfigOptions lists the inputs of NewConfig.
type ConfigOptions struct {
	// AssertingMethods are names of methods that prove the current thread is
	// the main thread.
	AssertingMethods []string

	// SwitchingMethods are names of methods that move execution to the main
	// thread.
	SwitchingMethods []string

	// RequiringPrefixes are package path prefixes of interfaces that must only
	// be used on the main thread.
	RequiringPrefixes []string

	// ShellPackage overrides DefaultShellPackage when non-empty.
	ShellPackage string
}

// NewConfig builds a session configuration. Empty entries are ignored.
func NewConfig(opts ConfigOptions) *Config {
	c := &Config{
		asserting:    toSet(opts.AssertingMethods),
		switching:    toSet(opts.SwitchingMethods),
		shellPackage: opts.ShellPackage,
	}
	if c.shellPackage == "" {
		c.shellPackage = DefaultShellPackage
	}
	for _, p := range opts.RequiringPrefixes {
		if p != "" {
			c.requiring = append(c.requiring, p)
		}
	}
	slices.Sort(c.requiring)
	c.requiring = slices.Compact(c.requiring)
	return c
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// IsAsserting reports whether name is a configured asserting method.
func (c *Config) IsAsserting(name string) bool {
	_, ok := c.asserting[name]
	return ok
}

// IsSwitching reports whether name is a configured switching method.
func (c *Config) IsSwitching(name string) bool {
	_, ok := c.switching[name]
	return ok
}

// MatchesRequiringPrefix reports whether assembly starts with a configured
// main-thread-requiring prefix.
func (c *Config) MatchesRequiringPrefix(assembly string) bool {
	for _, p := range c.requiring {
		if strings.HasPrefix(assembly, p) {
			return true
		}
	}
	return false
}

// ShellPackage returns the well-known shell package path.
func (c *Config) ShellPackage() string {
	return c.shellPackage
}

// Empty reports whether no names are configured at all.
func (c *Config) Empty() bool {
	return len(c.asserting) == 0 && len(c.switching) == 0 && len(c.requiring) == 0
}
