package allowlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// LoadYAML reads lists from a YAML file:
//
//	asserting_methods: [ThrowIfNotOnUIThread]
//	switching_methods: [SwitchToMainThread]
//	types_requiring_main_thread: [example.com/legacy]
//	shell_package: example.com/shell
//
// An empty path or a missing file yields empty lists.
func LoadYAML(path string) (Lists, error) {
	var l Lists
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return l, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &l); err != nil {
		return Lists{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return l, nil
}
