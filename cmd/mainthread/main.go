// Package main implements the CLI driver for the mainthread linter.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/715d/mainthread/pkg/affinity"
	"github.com/715d/mainthread/pkg/mainthread"
)

// Config holds all command-line configuration options for the mainthread analyzer.
type Config struct {
	Packages      []string // the Go packages to analyze
	Verbose       bool     // enables detailed output and statistics
	JSON          bool     // enables JSON output format
	BuildTags     []string // build tags to use during package loading
	Profile       bool     // enables CPU and memory profiling
	SkipGenerated bool     // skip files with generated code markers
	ConfigDir     string   // directory with mainthread.*.txt allow-lists
	ConfigFile    string   // YAML configuration file
	Workers       int      // functions analyzed concurrently per package
	Watch         bool     // re-run on source or configuration changes
}

const (
	exitViolationsFound = 1
	exitError           = 2
)

var (
	// Set via ldflags during build.
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var cfg Config

func main() {
	var rootCmd = &cobra.Command{
		Use:   "mainthread [packages...]",
		Short: "Find main-thread-affine types used off the main thread",
		Long: `mainthread is a linter that reports uses of types that must only be used on
the main (UI) thread, when the enclosing function has not first asserted or
switched to the main thread.

Configuration is read from mainthread.AssertingMethods*.txt,
mainthread.SwitchingMethods*.txt and mainthread.TypesRequiringMainThread*.txt
files in --config-dir and from the YAML file given with --config.`,
		Example: `  mainthread ./...                          # Analyze all packages
  mainthread --config-dir .mainthread ./... # Read allow-lists from .mainthread
  mainthread -v ./internal                  # Verbose output
  mainthread --json . > report.json         # JSON output to file
  mainthread --watch ./...                  # Re-run when files change`,
		Args:               cobra.ArbitraryArgs,
		RunE:               runCommand,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Version:            version,
	}

	// Set custom version template to include build info.
	rootCmd.SetVersionTemplate(fmt.Sprintf("mainthread version %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildTime))

	// Define flags.
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&cfg.JSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringSliceVar(&cfg.BuildTags, "build-tags", []string{}, "Build tags to use during package loading")
	rootCmd.PersistentFlags().BoolVar(&cfg.Profile, "profile", false, "Enable CPU and memory profiling (writes cpu.prof and mem.prof to current directory)")
	rootCmd.Flags().BoolVar(&cfg.SkipGenerated, "skip-generated", false, "Skip files with generated code markers (e.g., '// Code generated')")
	rootCmd.Flags().StringVar(&cfg.ConfigDir, "config-dir", ".", "Directory containing mainthread.*.txt allow-list files")
	rootCmd.Flags().StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file")
	rootCmd.Flags().IntVar(&cfg.Workers, "workers", runtime.GOMAXPROCS(0), "Functions analyzed concurrently per package")
	rootCmd.Flags().BoolVar(&cfg.Watch, "watch", false, "Re-run the analysis when Go sources or allow-list files change")

	rootCmd.AddCommand(newRulesCommand())

	if err := rootCmd.Execute(); err != nil {
		_ = teardown(nil, nil)
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		var cErr codedError
		if errors.As(err, &cErr) {
			os.Exit(cErr.code)
		}
		os.Exit(exitError)
	}
}

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules mainthread reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeRules(cmd.OutOrStdout(), affinity.SupportedRules(), cfg.JSON)
		},
	}
}

func writeRules(w io.Writer, rules []affinity.Rule, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rules); err != nil {
			return fmt.Errorf("marshaling rules: %w", err)
		}
		return nil
	}
	for _, r := range rules {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Severity, r.Category, r.Title); err != nil {
			return err
		}
	}
	return nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		cfg.Packages = args
	} else {
		cfg.Packages = []string{"./..."}
	}

	if cfg.Watch {
		return watch(cmd.Context(), &cfg, func(ctx context.Context) {
			result, err := runAnalysis(ctx, &cfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			if err := writeResults(os.Stdout, result, &cfg); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		})
	}

	slog.Info("starting main-thread analysis", "packages", cfg.Packages)

	result, err := runAnalysis(cmd.Context(), &cfg)
	if err != nil {
		return errWithCode(fmt.Errorf("analyze: %w", err), exitError)
	}

	if err := writeResults(os.Stdout, result, &cfg); err != nil {
		return errWithCode(fmt.Errorf("format results: %w", err), exitError)
	}

	if len(result.Violations) > 0 {
		return errWithCode(nil, exitViolationsFound)
	}
	return nil
}

// Result represents the analysis output including all violations and
// execution statistics.
type Result struct {
	Violations []mainthread.Violation `json:"violations"`
	Stats      struct {
		Packages         int           `json:"packages"`
		Violations       int           `json:"violations"`
		AnalysisDuration time.Duration `json:"analysis_duration"`
	} `json:"stats"`
}

func runAnalysis(ctx context.Context, cfg *Config) (*Result, error) {
	start := time.Now()

	slog.Info("loading packages", "packages", cfg.Packages)
	if len(cfg.BuildTags) > 0 {
		slog.Info("using build tags", "tags", cfg.BuildTags)
	}

	pkgs, err := mainthread.LoadPackages(ctx, mainthread.LoaderOptions{
		Packages:  cfg.Packages,
		BuildTags: cfg.BuildTags,
	})
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	slog.Info("loaded packages", "num", len(pkgs))

	opts := analyzerOptions(cfg)
	slog.Info("running analysis", "options", opts)
	violations, err := mainthread.Check(pkgs, opts...)
	if err != nil {
		return nil, fmt.Errorf("analyze packages: %w", err)
	}
	duration := time.Since(start)
	slog.Info("analysis completed", "dur", duration)

	var r Result
	r.Violations = violations
	r.Stats.Packages = len(pkgs)
	r.Stats.Violations = len(violations)
	r.Stats.AnalysisDuration = duration
	return &r, nil
}

func analyzerOptions(cfg *Config) mainthread.Options {
	return mainthread.Options{
		mainthread.WithConfigDir(cfg.ConfigDir),
		mainthread.WithConfigFile(cfg.ConfigFile),
		mainthread.WithGenerated(!cfg.SkipGenerated),
		mainthread.WithWorkers(cfg.Workers),
	}
}

func writeResults(w io.Writer, result *Result, cfg *Config) error {
	var output string
	var err error

	if cfg.JSON {
		output, err = formatJSONOutput(result)
	} else {
		output = formatTextOutput(result, cfg)
	}

	if err != nil {
		return err
	}

	_, err = io.WriteString(w, output)
	return err
}

func formatJSONOutput(result *Result) (string, error) {
	violations := make([]jViolation, 0, len(result.Violations))
	for _, v := range result.Violations {
		violations = append(violations, jViolation{
			Rule:    v.Rule,
			Message: v.Message,
			File:    v.Position.Filename,
			Line:    v.Position.Line,
			Column:  v.Position.Column,
			Package: v.Package,
		})
	}

	data, err := json.MarshalIndent(jOutput{
		Violations: violations,
		Stats:      result.Stats,
		Version:    version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling json output: %w", err)
	}
	return string(data) + "\n", nil
}

func formatTextOutput(result *Result, cfg *Config) string {
	var output strings.Builder

	if cfg.Verbose {
		slog.Info("",
			"packages", result.Stats.Packages,
			"violations", result.Stats.Violations,
			"analysis_duration", result.Stats.AnalysisDuration.String())
	}

	if len(result.Violations) == 0 {
		slog.Info("no violations found")
		return output.String()
	}

	lastPkg := ""
	for _, v := range result.Violations {
		if cfg.Verbose && v.Package != lastPkg {
			fmt.Fprintf(&output, "\n%s:\n", v.Package)
			lastPkg = v.Package
		}

		// Format: filename:line:column: message (rule)
		if cfg.Verbose {
			output.WriteString("  ")
		}
		output.WriteString(v.String())
		output.WriteByte('\n')
	}

	return output.String()
}

type jOutput struct {
	Violations []jViolation `json:"violations"`
	Stats      any          `json:"stats"`
	Version    string       `json:"version"`
	Timestamp  string       `json:"timestamp"`
}

type jViolation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Package string `json:"package"`
}

var cpuProfile *os.File

func setup(_ *cobra.Command, _ []string) error {
	// Disable logger unless verbose flag is set.
	slog.SetDefault(slog.New(slog.DiscardHandler))
	if cfg.Verbose {
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if cfg.JSON {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
	}

	if !cfg.Profile {
		return nil
	}

	// Start CPU profiling.
	var err error
	cpuProfile, err = os.Create("cpu.prof")
	if err != nil {
		return fmt.Errorf("creating cpu.prof: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuProfile); err != nil {
		_ = cpuProfile.Close()
		return fmt.Errorf("starting CPU profile: %w", err)
	}
	slog.Info("cpu profiling started", "file", "cpu.prof")
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if !cfg.Profile || cpuProfile == nil {
		return nil
	}

	// Stop CPU profiling and close file.
	pprof.StopCPUProfile()
	defer cpuProfile.Close()
	cpuProfile = nil
	slog.Info("cpu profiling stopped", "file", "cpu.prof")

	// Write memory profile.
	memFile, err := os.Create("mem.prof")
	if err != nil {
		return fmt.Errorf("creating mem.prof: %w", err)
	}
	defer memFile.Close()
	runtime.GC() // Get up-to-date statistics
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("writing memory profile: %w", err)
	}
	slog.Info("memory profiling completed", "file", "mem.prof")
	return nil
}

func errWithCode(err error, code int) error {
	return codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e codedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}
