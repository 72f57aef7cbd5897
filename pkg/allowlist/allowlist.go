// Package allowlist reads the name sets that configure the main-thread
// analysis from line-oriented allow-list files and an optional YAML file.
package allowlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/715d/mainthread/pkg/affinity"
)

// Kind identifies one of the allow-lists.
type Kind int

const (
	// AssertingMethods lists methods that prove the thread is the main thread.
	AssertingMethods Kind = iota

	// SwitchingMethods lists methods that switch to the main thread.
	SwitchingMethods

	// TypesRequiringMainThread lists package path prefixes of main-thread
	// interfaces.
	TypesRequiringMainThread
)

// String returns the YAML key of the list.
func (k Kind) String() string {
	switch k {
	case AssertingMethods:
		return "asserting_methods"
	case SwitchingMethods:
		return "switching_methods"
	case TypesRequiringMainThread:
		return "types_requiring_main_thread"
	default:
		return "unknown"
	}
}

// File name patterns, matched against the base name of a file.
var patterns = map[Kind]*regexp.Regexp{
	AssertingMethods:         regexp.MustCompile(`^mainthread\.AssertingMethods(\..*)?\.txt$`),
	SwitchingMethods:         regexp.MustCompile(`^mainthread\.SwitchingMethods(\..*)?\.txt$`),
	TypesRequiringMainThread: regexp.MustCompile(`^mainthread\.TypesRequiringMainThread(\..*)?\.txt$`),
}

// KindOf returns the allow-list kind a file name belongs to.
func KindOf(path string) (Kind, bool) {
	base := filepath.Base(path)
	for _, k := range []Kind{AssertingMethods, SwitchingMethods, TypesRequiringMainThread} {
		if patterns[k].MatchString(base) {
			return k, true
		}
	}
	return 0, false
}

// Lists holds the entries read from allow-list sources.
type Lists struct {
	AssertingMethods         []string `yaml:"asserting_methods"`
	SwitchingMethods         []string `yaml:"switching_methods"`
	TypesRequiringMainThread []string `yaml:"types_requiring_main_thread"`
	ShellPackage             string   `yaml:"shell_package,omitempty"`
}

func (l *Lists) add(k Kind, entry string) {
	switch k {
	case AssertingMethods:
		l.AssertingMethods = append(l.AssertingMethods, entry)
	case SwitchingMethods:
		l.SwitchingMethods = append(l.SwitchingMethods, entry)
	case TypesRequiringMainThread:
		l.TypesRequiringMainThread = append(l.TypesRequiringMainThread, entry)
	}
}

// Merge returns the union of l and other. A non-empty shell package in other
// replaces the one in l.
func (l Lists) Merge(other Lists) Lists {
	merged := Lists{
		AssertingMethods:         slices.Concat(l.AssertingMethods, other.AssertingMethods),
		SwitchingMethods:         slices.Concat(l.SwitchingMethods, other.SwitchingMethods),
		TypesRequiringMainThread: slices.Concat(l.TypesRequiringMainThread, other.TypesRequiringMainThread),
		ShellPackage:             l.ShellPackage,
	}
	if other.ShellPackage != "" {
		merged.ShellPackage = other.ShellPackage
	}
	return merged
}

// Len returns the total number of entries.
func (l Lists) Len() int {
	return len(l.AssertingMethods) + len(l.SwitchingMethods) + len(l.TypesRequiringMainThread)
}

// Config converts the lists into an immutable session configuration.
func (l Lists) Config() *affinity.Config {
	return affinity.NewConfig(affinity.ConfigOptions{
		AssertingMethods:  l.AssertingMethods,
		SwitchingMethods:  l.SwitchingMethods,
		RequiringPrefixes: l.TypesRequiringMainThread,
		ShellPackage:      l.ShellPackage,
	})
}

// FromFiles reads every path whose base name matches an allow-list pattern.
// Other paths are ignored, as are paths that do not exist.
func FromFiles(paths []string) (Lists, error) {
	var l Lists
	for _, path := range paths {
		kind, ok := KindOf(path)
		if !ok {
			continue
		}
		if err := scanFile(path, kind, &l); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("allow-list file not found", "file", path)
				continue
			}
			return l, fmt.Errorf("read allow-list %s: %w", path, err)
		}
	}
	return l, nil
}

// FromDir reads the allow-list files found directly in dir. A missing
// directory yields empty lists.
func FromDir(dir string) (Lists, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Lists{}, nil
		}
		return Lists{}, fmt.Errorf("read config dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return FromFiles(paths)
}

func scanFile(path string, kind Kind, l *Lists) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return scanReader(file, kind, l)
}

// scanReader reads one entry per line, skipping blank lines and # comments.
func scanReader(r io.Reader, kind Kind, l *Lists) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.add(kind, line)
	}
	return scanner.Err()
}
