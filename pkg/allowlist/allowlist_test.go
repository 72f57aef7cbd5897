package allowlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Kind
		ok       bool
	}{
		{"asserting", "mainthread.AssertingMethods.txt", AssertingMethods, true},
		{"asserting with suffix", "/cfg/mainthread.AssertingMethods.vs.txt", AssertingMethods, true},
		{"switching", "mainthread.SwitchingMethods.txt", SwitchingMethods, true},
		{"requiring", "mainthread.TypesRequiringMainThread.legacy.txt", TypesRequiringMainThread, true},
		{"wrong extension", "mainthread.AssertingMethods.yaml", 0, false},
		{"wrong prefix", "threads.AssertingMethods.txt", 0, false},
		{"no separator", "mainthread.AssertingMethodsX.txt", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.path)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.expected, kind)
			}
		})
	}
}

func TestScanReader(t *testing.T) {
	input := `# methods that assert the UI thread
ThrowIfNotOnUIThread

  VerifyAccess
# trailing comment
`
	var l Lists
	require.NoError(t, scanReader(strings.NewReader(input), AssertingMethods, &l))
	require.Equal(t, []string{"ThrowIfNotOnUIThread", "VerifyAccess"}, l.AssertingMethods)
	require.Empty(t, l.SwitchingMethods)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mainthread.AssertingMethods.txt", "ThrowIfNotOnUIThread\n")
	writeFile(t, dir, "mainthread.SwitchingMethods.txt", "SwitchToMainThread\n")
	writeFile(t, dir, "mainthread.TypesRequiringMainThread.txt", "example.com/legacy\n")
	writeFile(t, dir, "mainthread.TypesRequiringMainThread.extra.txt", "example.com/interop\n")
	writeFile(t, dir, "README.md", "ignored\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "mainthread.AssertingMethods.d.txt"), 0o700))

	l, err := FromDir(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"ThrowIfNotOnUIThread"}, l.AssertingMethods)
	require.Equal(t, []string{"SwitchToMainThread"}, l.SwitchingMethods)
	require.ElementsMatch(t, []string{"example.com/legacy", "example.com/interop"}, l.TypesRequiringMainThread)
	require.Equal(t, 4, l.Len())

	cfg := l.Config()
	require.True(t, cfg.IsAsserting("ThrowIfNotOnUIThread"))
	require.True(t, cfg.IsSwitching("SwitchToMainThread"))
	require.True(t, cfg.MatchesRequiringPrefix("example.com/legacy/shell"))
}

func TestFromDir_Missing(t *testing.T) {
	l, err := FromDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Zero(t, l.Len())
	require.True(t, l.Config().Empty())
}

func TestFromFiles_SkipsMissingAndUnrelated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mainthread.SwitchingMethods.txt", "SwitchToMainThread\n")

	l, err := FromFiles([]string{
		path,
		filepath.Join(dir, "mainthread.AssertingMethods.txt"),
		filepath.Join(dir, "other.txt"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"SwitchToMainThread"}, l.SwitchingMethods)
	require.Empty(t, l.AssertingMethods)
}

func TestMerge(t *testing.T) {
	a := Lists{AssertingMethods: []string{"A"}, ShellPackage: "example.com/shell"}
	b := Lists{AssertingMethods: []string{"B"}, SwitchingMethods: []string{"S"}}

	merged := a.Merge(b)
	require.Equal(t, []string{"A", "B"}, merged.AssertingMethods)
	require.Equal(t, []string{"S"}, merged.SwitchingMethods)
	require.Equal(t, "example.com/shell", merged.ShellPackage)

	merged = merged.Merge(Lists{ShellPackage: "example.com/other"})
	require.Equal(t, "example.com/other", merged.ShellPackage)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mainthread.yaml", `asserting_methods:
  - ThrowIfNotOnUIThread
switching_methods: [SwitchToMainThread]
types_requiring_main_thread:
  - example.com/legacy
shell_package: example.com/shell
`)

	l, err := LoadYAML(path)
	require.NoError(t, err)
	require.Equal(t, Lists{
		AssertingMethods:         []string{"ThrowIfNotOnUIThread"},
		SwitchingMethods:         []string{"SwitchToMainThread"},
		TypesRequiringMainThread: []string{"example.com/legacy"},
		ShellPackage:             "example.com/shell",
	}, l)
	require.Equal(t, "example.com/shell", l.Config().ShellPackage())
}

func TestLoadYAML_MissingAndInvalid(t *testing.T) {
	l, err := LoadYAML("")
	require.NoError(t, err)
	require.Zero(t, l.Len())

	l, err = LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Zero(t, l.Len())

	path := writeFile(t, t.TempDir(), "bad.yaml", "asserting_methods: {unclosed")
	_, err = LoadYAML(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
}
