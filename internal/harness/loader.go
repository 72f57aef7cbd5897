package harness

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"

	yaml "gopkg.in/yaml.v3"

	"github.com/stretchr/testify/require"

	"github.com/715d/mainthread/pkg/mainthread"
)

// LoaderConfig configures package loading for one build configuration.
type LoaderConfig struct {
	// Dir is the module directory to load ./... from.
	Dir string

	BuildTags []string
	EnableCGo bool
	GOOS      string
	GOARCH    string

	// SkipTests excludes _test.go files.
	SkipTests bool
}

// environ returns the process environment with the configured toolchain
// overrides applied.
func (c *LoaderConfig) environ() []string {
	env := os.Environ()
	cgo := "0"
	if c.EnableCGo {
		cgo = "1"
	}
	env = setEnv(env, "CGO_ENABLED", cgo)
	if c.GOOS != "" {
		env = setEnv(env, "GOOS", c.GOOS)
	}
	if c.GOARCH != "" {
		env = setEnv(env, "GOARCH", c.GOARCH)
	}
	return env
}

// LoadPackages loads every package of the fixture module in c.Dir.
func LoadPackages(t *testing.T, c *LoaderConfig) []*packages.Package {
	t.Helper()

	t.Logf("Loading fixture module %q", c.Dir)
	pkgs, err := mainthread.LoadPackages(t.Context(), mainthread.LoaderOptions{
		Packages:  []string{"./..."},
		BuildTags: c.BuildTags,
		Dir:       c.Dir,
		Env:       c.environ(),
		SkipTests: c.SkipTests,
	})
	require.NoError(t, err)
	return pkgs
}

// LoadTestCase reads dir/expected.yaml. The case is named by dir relative
// to root.
func LoadTestCase(t *testing.T, dir, root string) *TestCase {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, "expected.yaml"))
	require.NoError(t, err)

	tc := &TestCase{}
	require.NoError(t, yaml.Unmarshal(data, tc))

	names := make([]string, 0, len(tc.BuildConfigurations))
	for _, cfg := range tc.BuildConfigurations {
		require.NotContains(t, names, cfg.Name, "duplicate build configuration in %s", dir)
		names = append(names, cfg.Name)
	}

	tc.Dir = filepath.Base(dir)
	if rel, err := filepath.Rel(root, dir); err == nil {
		tc.Dir = rel
	}
	return tc
}

// CloneRepository clones the repository into a temporary directory and
// returns the directory to analyze.
func CloneRepository(t *testing.T, repo *RepoConfig) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, shallowClone(repo.URL, repo.Ref, dir))
	if repo.Subdir != "" {
		return filepath.Join(dir, repo.Subdir)
	}
	return dir
}

// shallowClone fetches a single commit of ref, or of the default branch when
// ref is empty.
func shallowClone(url, ref, dir string) error {
	args := []string{"clone", "--depth", "1", "--single-branch"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, dir)

	cmd := exec.Command("git", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w\n%s", cmd.String(), err, out)
	}
	return nil
}

func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	env = slices.DeleteFunc(env, func(e string) bool {
		return strings.HasPrefix(e, prefix)
	})
	return append(env, prefix+value)
}
