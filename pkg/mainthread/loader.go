package mainthread

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// defaultLoadMode loads syntax and type information for every dependency.
// Directive facts flow from dependencies to their importers, so dependencies
// are analyzed from source as well.
const defaultLoadMode = packages.NeedDeps |
	packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes |
	packages.NeedModule

// LoaderOptions configures package loading behavior.
type LoaderOptions struct {
	// Packages are the package patterns to load.
	Packages []string

	// BuildTags are build tags to apply during loading.
	BuildTags []string

	// Dir is the directory to load packages from.
	// If empty, uses the current working directory.
	Dir string

	// Env is the environment to use for loading.
	// If nil, uses the current environment.
	Env []string

	// SkipTests excludes _test.go files.
	SkipTests bool
}

// LoadPackages loads Go packages with the information the mainthread analyzer needs.
func LoadPackages(ctx context.Context, opts LoaderOptions) ([]*packages.Package, error) {
	// Default to current directory patterns.
	patterns := opts.Packages
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    defaultLoadMode,
		Tests:   !opts.SkipTests,
		Env:     opts.Env,
		Dir:     opts.Dir,
	}

	if len(opts.BuildTags) > 0 {
		cfg.BuildFlags = append(cfg.BuildFlags, "-tags", strings.Join(opts.BuildTags, ","))
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching patterns: %v", patterns)
	}

	// Check for errors in loaded packages.
	var errorMessages []string
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			errorMessages = append(errorMessages, fmt.Sprintf("package %s: %v", pkg.PkgPath, err))
		}
	}

	if len(errorMessages) > 0 {
		return nil, fmt.Errorf("package errors:\n%s", strings.Join(errorMessages, "\n"))
	}

	return deduplicatePackages(pkgs), nil
}

// deduplicatePackages removes duplicate packages, preferring test variants over regular packages.
// Test variants (IDs containing "[...]") include all production files plus the
// in-package tests, so analyzing both would report production code twice.
// The result is ordered by package path.
func deduplicatePackages(pkgs []*packages.Package) []*packages.Package {
	best := make(map[string]*packages.Package)
	for _, pkg := range pkgs {
		// Generated test main packages.
		if strings.HasSuffix(pkg.ID, ".test") && !strings.Contains(pkg.ID, "[") {
			continue
		}

		existing, exists := best[pkg.PkgPath]
		if !exists {
			best[pkg.PkgPath] = pkg
			continue
		}

		if isSuperset(pkg, existing) {
			best[pkg.PkgPath] = pkg
		}
	}
	return slices.SortedFunc(maps.Values(best), func(a, b *packages.Package) int {
		return cmp.Compare(a.PkgPath, b.PkgPath)
	})
}

// isSuperset returns true if pkg is a superset of existing.
// Test variants (containing "[...]" in ID) are supersets of regular packages.
func isSuperset(pkg, existing *packages.Package) bool {
	pkgIsTest := strings.Contains(pkg.ID, "[")
	existingIsTest := strings.Contains(existing.ID, "[")
	return pkgIsTest && !existingIsTest
}
