package mainthread

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/checker"
	"golang.org/x/tools/go/packages"
)

// Check runs a mainthread analyzer configured with opts over pkgs and returns
// the violations found in them, sorted by position. Packages must be loaded
// with [LoadPackages] or an equivalent mode including dependencies' syntax.
func Check(pkgs []*packages.Package, opts ...Option) ([]Violation, error) {
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages provided")
	}
	for _, pkg := range pkgs {
		if pkg == nil {
			return nil, fmt.Errorf("nil package")
		}
	}

	a := New(opts...)
	graph, err := checker.Analyze([]*analysis.Analyzer{a}, pkgs, &checker.Options{})
	if err != nil {
		return nil, fmt.Errorf("run analyzer: %w", err)
	}

	var (
		violations []Violation
		errs       []error
	)
	for _, act := range graph.Roots {
		if act.Analyzer != a {
			continue
		}
		if act.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", act.Package.PkgPath, act.Err))
			continue
		}
		for _, d := range act.Diagnostics {
			violations = append(violations, Violation{
				Rule:     d.Category,
				Message:  d.Message,
				Position: act.Package.Fset.Position(d.Pos),
				Package:  act.Package.PkgPath,
			})
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	slices.SortFunc(violations, func(a, b Violation) int {
		return cmp.Or(
			cmp.Compare(a.Position.Filename, b.Position.Filename),
			cmp.Compare(a.Position.Line, b.Position.Line),
			cmp.Compare(a.Position.Column, b.Position.Column),
		)
	})
	return slices.CompactFunc(violations, func(a, b Violation) bool {
		return a.Position == b.Position && a.Message == b.Message
	}), nil
}
