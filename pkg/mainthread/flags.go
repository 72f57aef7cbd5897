package mainthread

import (
	"flag"
	"strings"

	"github.com/715d/mainthread/pkg/affinity"
)

// registerFlags binds the analyzer options to flag values. A nil flag set
// defaults to the program's command line.
func registerFlags(flags *flag.FlagSet, r *runOptions) {
	if flags == nil {
		flags = flag.CommandLine
	}

	flags.StringVar(&r.configDir, "config-dir", r.configDir, "directory containing mainthread.*.txt allow-list files")
	flags.StringVar(&r.configFile, "config", r.configFile, "YAML configuration file")
	flags.Var(&r.asserting, "asserting", "comma-separated names of methods asserting the main thread")
	flags.Var(&r.switching, "switching", "comma-separated names of methods switching to the main thread")
	flags.Var(&r.requiring, "requiring", "comma-separated package path prefixes of main-thread interfaces")
	flags.StringVar(&r.shellPackage, "shell-package", r.shellPackage, "package path of the shell package (default "+affinity.DefaultShellPackage+")")
	flags.BoolVar(&r.generated, "generated", r.generated, "check generated files")
	flags.IntVar(&r.workers, "workers", r.workers, "functions analyzed concurrently per package")
}

// stringList is a comma-separated, repeatable [flag.Value].
type stringList []string

// String implements [flag.Value].
func (l *stringList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

// Set implements [flag.Value].
func (l *stringList) Set(s string) error {
	for name := range strings.SplitSeq(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*l = append(*l, name)
		}
	}
	return nil
}

// Get implements [flag.Getter].
func (l *stringList) Get() any { return []string(*l) }
