// Package harness runs the mainthread analyzer over fixture modules and
// compares its findings with the expectations recorded next to them.
package harness

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/715d/mainthread/pkg/affinity"
	"github.com/715d/mainthread/pkg/mainthread"
)

// BuildConfiguration represents a single build configuration to test.
type BuildConfiguration struct {
	// Name is a descriptive name for this configuration.
	Name string `yaml:"name"`

	// BuildTags are the build tags to use when loading packages.
	BuildTags []string `yaml:"build_tags"`

	// EnableCGo indicates whether CGo should be enabled.
	EnableCGo bool `yaml:"enable_cgo"`

	// GOOS sets the target operating system.
	GOOS string `yaml:"goos,omitempty"`

	// GOARCH sets the target architecture.
	GOARCH string `yaml:"goarch,omitempty"`

	// ConfigDir holds mainthread.*.txt allow-lists, relative to the test dir.
	ConfigDir string `yaml:"config_dir,omitempty"`

	// ConfigFile is a YAML configuration file, relative to the test dir.
	ConfigFile string `yaml:"config_file,omitempty"`

	// SkipTests excludes _test.go files from loading.
	SkipTests bool `yaml:"skip_tests"`

	// SkipGenerated excludes generated files from analysis.
	SkipGenerated bool `yaml:"skip_generated"`

	// Workers bounds per-package concurrency. Zero keeps the default.
	Workers int `yaml:"workers,omitempty"`

	// ExpectedViolations lists the findings expected for this configuration.
	ExpectedViolations []ExpectedViolation `yaml:"expected_violations"`

	// ExpectedErrors lists any expected error messages for this configuration.
	ExpectedErrors []string `yaml:"expected_errors"`
}

// TestCase represents a single test scenario.
type TestCase struct {
	// Dir is the directory containing the test code.
	Dir string `yaml:"-"`

	// Repository contains optional git repository configuration for external testing.
	Repository *RepoConfig `yaml:"repository,omitempty"`

	// BuildConfigurations defines multiple build configurations to test.
	BuildConfigurations []BuildConfiguration `yaml:"build_configurations"`
}

// ExpectedViolation is one finding the analyzer must report.
type ExpectedViolation struct {
	// File is the file path relative to the test dir, slash separated.
	File string `yaml:"file"`

	// Line is the 1-based line of the finding.
	Line int `yaml:"line"`

	// Type is the name of the main-thread-affine type in the message.
	Type string `yaml:"type"`

	// Rule is the rule ID. Empty means the usage rule.
	Rule string `yaml:"rule,omitempty"`
}

// RepoConfig represents configuration for testing external repositories.
type RepoConfig struct {
	// URL is the git repository URL.
	URL string `yaml:"url"`

	// Ref is the git reference (commit, branch, or tag) to checkout.
	Ref string `yaml:"ref"`

	// Subdir is an optional subdirectory within the repository to test.
	Subdir string `yaml:"subdir,omitempty"`
}

// TestHarness manages test execution.
type TestHarness struct {
	// root is the root directory for test data
	root string
}

// NewHarness creates a new test harness.
func NewHarness(root string) *TestHarness {
	return &TestHarness{root: root}
}

// Run executes a test case with all its build configurations.
func (h *TestHarness) Run(t *testing.T, tc *TestCase) *TestResult {
	t.Helper()
	require.NotEmpty(t, tc.BuildConfigurations, "test case has no build configurations")

	var results []ConfigurationResult
	var allSuccess = true

	// Run each configuration.
	for _, cfg := range tc.BuildConfigurations {
		cfgResult := h.runConfiguration(t, tc, cfg)
		results = append(results, *cfgResult)
		if !cfgResult.Success {
			allSuccess = false
		}
	}

	// Create overall result message.
	var resultMsg string
	if allSuccess {
		resultMsg = fmt.Sprintf("All %d configurations passed", len(tc.BuildConfigurations))
	} else {
		failedCount := 0
		var msgs []string
		for _, cr := range results {
			if !cr.Success {
				failedCount++
				msgs = append(msgs, fmt.Sprintf("[%s] %s:\n  %s",
					cr.Configuration.Name, cr.Message, strings.Join(cr.Details, "\n")))
			}
		}
		resultMsg = fmt.Sprintf("%d/%d configurations failed:\n%s",
			failedCount, len(tc.BuildConfigurations), strings.Join(msgs, "\n"))
	}

	return &TestResult{
		TestCase:             tc,
		ConfigurationResults: results,
		Success:              allSuccess,
		Message:              resultMsg,
	}
}

// runConfiguration executes analysis for a single build configuration
func (h *TestHarness) runConfiguration(t *testing.T, tc *TestCase, cfg BuildConfiguration) *ConfigurationResult {
	t.Helper()
	loaderConfig := &LoaderConfig{
		BuildTags: cfg.BuildTags,
		EnableCGo: cfg.EnableCGo,
		GOOS:      cfg.GOOS,
		GOARCH:    cfg.GOARCH,
		SkipTests: cfg.SkipTests,
	}

	var dir string
	if tc.Repository != nil {
		dir = CloneRepository(t, tc.Repository)
	} else {
		dir = filepath.Join(h.root, tc.Dir)
	}
	loaderConfig.Dir = dir
	pkgs := LoadPackages(t, loaderConfig)

	violations, err := mainthread.Check(pkgs, analyzerOptions(dir, cfg)...)
	if err != nil {
		// Check if this error was expected.
		for _, expectedErr := range cfg.ExpectedErrors {
			if strings.Contains(err.Error(), expectedErr) {
				return &ConfigurationResult{
					Configuration: cfg,
					Success:       true,
					Message:       fmt.Sprintf("Got expected error: %v", err),
				}
			}
		}
		require.NoError(t, err)
	}
	return validateConfigurationResults(dir, cfg, violations)
}

func analyzerOptions(dir string, cfg BuildConfiguration) mainthread.Options {
	opts := mainthread.Options{mainthread.WithGenerated(!cfg.SkipGenerated)}
	if cfg.ConfigDir != "" {
		opts = append(opts, mainthread.WithConfigDir(filepath.Join(dir, cfg.ConfigDir)))
	}
	if cfg.ConfigFile != "" {
		opts = append(opts, mainthread.WithConfigFile(filepath.Join(dir, cfg.ConfigFile)))
	}
	if cfg.Workers > 0 {
		opts = append(opts, mainthread.WithWorkers(cfg.Workers))
	}
	return opts
}

// validateConfigurationResults compares actual results with expected for a specific build configuration
func validateConfigurationResults(dir string, cfg BuildConfiguration, violations []mainthread.Violation) *ConfigurationResult {
	cfgResult := ConfigurationResult{
		Configuration: cfg,
		Violations:    violations,
	}

	// First validate the configuration has valid expectations.
	if err := validateExpectedViolations(cfg.ExpectedViolations); err != nil {
		cfgResult.Success = false
		cfgResult.Message = fmt.Sprintf("Invalid expected.yaml: %v", err)
		cfgResult.Details = []string{err.Error()}
		return &cfgResult
	}

	actual := make([]ExpectedViolation, 0, len(violations))
	for _, v := range violations {
		actual = append(actual, toExpected(dir, v))
	}
	validateResults(&cfgResult, cfg.ExpectedViolations, actual)
	return &cfgResult
}

// ConfigurationResult represents the result of running a single build configuration.
type ConfigurationResult struct {
	// Configuration is the build configuration that was run.
	Configuration BuildConfiguration

	// Violations is the raw result from the analyzer.
	Violations []mainthread.Violation

	// Success indicates if this configuration passed.
	Success bool

	// Message provides a summary of the result for this configuration.
	Message string

	// Details provides detailed information about failures for this configuration.
	Details []string
}

// TestResult represents the result of running a test case.
type TestResult struct {
	// TestCase is the test case that was run.
	TestCase *TestCase

	// ConfigurationResults contains results for each build configuration.
	ConfigurationResults []ConfigurationResult

	// Success indicates if the test passed (all configurations passed)
	Success bool

	// Skipped indicates if the test was skipped.
	Skipped bool

	// Message provides a summary of the result.
	Message string
}

// validateExpectedViolations validates that expectations have required fields
func validateExpectedViolations(expected []ExpectedViolation) error {
	for i, exp := range expected {
		if strings.TrimSpace(exp.File) == "" {
			return fmt.Errorf("expected violation at index %d has empty or missing 'file' field", i)
		}
		if exp.Line <= 0 {
			return fmt.Errorf("expected violation at index %d has invalid 'line' %d", i, exp.Line)
		}
	}
	return nil
}

func validateResults(cfgResult *ConfigurationResult, expected, actual []ExpectedViolation) {
	want := normalize(expected)
	got := normalize(actual)

	diff := gocmp.Diff(want, got, cmpopts.EquateEmpty())
	if diff == "" {
		cfgResult.Success = true
		cfgResult.Message = fmt.Sprintf("All %d expected violations found", len(want))
		return
	}

	cfgResult.Success = false
	cfgResult.Message = fmt.Sprintf("Test failed: expected %d violations, got %d", len(want), len(got))
	cfgResult.Details = []string{"(-want +got)", diff}
}

// normalize fills in the default rule and sorts by file and line.
func normalize(vs []ExpectedViolation) []ExpectedViolation {
	out := make([]ExpectedViolation, 0, len(vs))
	for _, v := range vs {
		if v.Rule == "" {
			v.Rule = affinity.MainThreadUsage.ID
		}
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b ExpectedViolation) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Type, b.Type),
		)
	})
	return out
}

// toExpected converts v into the expected.yaml form, relative to dir.
func toExpected(dir string, v mainthread.Violation) ExpectedViolation {
	file := v.Position.Filename
	if rel, err := filepath.Rel(dir, file); err == nil {
		file = rel
	}
	return ExpectedViolation{
		File: filepath.ToSlash(file),
		Line: v.Position.Line,
		Type: symbolOf(v.Message),
		Rule: v.Rule,
	}
}

// symbolOf extracts the type name from a usage message.
func symbolOf(msg string) string {
	_, suffix, ok := strings.Cut(affinity.MainThreadUsage.MessageFormat, "%s")
	if !ok {
		return msg
	}
	return strings.TrimSuffix(msg, suffix)
}
