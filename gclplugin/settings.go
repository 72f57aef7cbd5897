package gclplugin

import "github.com/715d/mainthread/pkg/mainthread"

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// ConfigDir is a directory containing mainthread.*.txt allow-list files.
	ConfigDir *string `json:"config-dir,omitzero"`
	// ConfigFile is a YAML configuration file.
	ConfigFile *string `json:"config,omitzero"`
	// AssertingMethods are names of methods asserting the main thread.
	AssertingMethods []string `json:"asserting-methods,omitzero"`
	// SwitchingMethods are names of methods switching to the main thread.
	SwitchingMethods []string `json:"switching-methods,omitzero"`
	// RequiringPrefixes are package path prefixes of main-thread interfaces.
	RequiringPrefixes []string `json:"requiring-prefixes,omitzero"`
	// ShellPackage overrides the shell package path.
	ShellPackage *string `json:"shell-package,omitzero"`
	// Generated enables diagnostics in generated files.
	Generated *bool `json:"generated,omitzero"`
	// Workers limits concurrently analyzed functions per package.
	Workers *int `json:"workers,omitzero"`
}

// Options converts [Settings] into a list of [mainthread.Option].
// Settings are applied only when explicitly set.
func (s Settings) Options() mainthread.Options {
	var opts mainthread.Options

	opts = appendOption(opts, s.ConfigDir, mainthread.WithConfigDir)
	opts = appendOption(opts, s.ConfigFile, mainthread.WithConfigFile)
	opts = appendNames(opts, s.AssertingMethods, mainthread.WithAssertingMethods)
	opts = appendNames(opts, s.SwitchingMethods, mainthread.WithSwitchingMethods)
	opts = appendNames(opts, s.RequiringPrefixes, mainthread.WithRequiringPrefixes)
	opts = appendOption(opts, s.ShellPackage, mainthread.WithShellPackage)
	opts = appendOption(opts, s.Generated, mainthread.WithGenerated)
	opts = appendOption(opts, s.Workers, mainthread.WithWorkers)

	return opts
}

// appendOption appends a non-nil setting to a [mainthread.Option] list.
func appendOption[T any](opts mainthread.Options, value *T, constructor func(T) mainthread.Option) mainthread.Options {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}

func appendNames(opts mainthread.Options, names []string, constructor func(...string) mainthread.Option) mainthread.Options {
	if len(names) == 0 {
		return opts
	}

	return append(opts, constructor(names...))
}
