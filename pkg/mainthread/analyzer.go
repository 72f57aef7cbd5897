// Package mainthread provides the main-thread affinity analyzer and a driver
// for running it over loaded packages.
package mainthread

import (
	"fmt"
	"go/ast"
	"go/types"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	sites "github.com/715d/mainthread/internal/analysis"
	"github.com/715d/mainthread/internal/frontend"
	"github.com/715d/mainthread/pkg/affinity"
	"github.com/715d/mainthread/pkg/directive"
	"github.com/715d/mainthread/pkg/suppress"
)

const (
	name = "mainthread"
	doc  = `mainthread reports uses of main-thread-affine types before the main thread is established

A call, field access, conversion or type assertion involving a type that must
only be used on the main thread is reported unless an earlier statement of
the same function called a method that asserts or switches to the main
thread. Such methods are named in allow-list files or marked with a
//mainthread:asserts or //mainthread:switches directive.`
	url = "https://pkg.go.dev/github.com/715d/mainthread"
)

// New creates a new instance of the mainthread analyzer.
func New(opts ...Option) *analysis.Analyzer {
	r := defaultOptions()
	Options(opts).apply(r)

	a := &analysis.Analyzer{
		Name:      name,
		Doc:       doc,
		URL:       url,
		Run:       r.run,
		Requires:  []*analysis.Analyzer{inspect.Analyzer},
		FactTypes: []analysis.Fact{new(establishesFact)},
	}

	registerFlags(&a.Flags, r)

	return a
}

// Analyzer is a pre-configured *[analysis.Analyzer] reading its configuration
// from flags.
var Analyzer = New()

// establishesFact marks a function whose doc comment carries a main-thread
// directive, so callers in other packages see it.
type establishesFact struct {
	Directive directive.Type
}

func (*establishesFact) AFact() {}

func (f *establishesFact) String() string { return f.Directive.String() }

func (r *runOptions) run(pass *analysis.Pass) (any, error) {
	cfg, err := r.config()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	exportDirectives(pass)

	insp, _ := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	var skip func(*ast.File) bool
	if !r.generated {
		skip = ast.IsGenerated
	}
	index := sites.Collect(insp, pass.TypesInfo, skip)
	if index.NumSites() == 0 {
		return nil, nil
	}

	suppressions := suppress.NewChecker()
	if err := suppressions.Load(pass.Fset, pass.Files); err != nil {
		return nil, fmt.Errorf("load suppressions: %w", err)
	}

	model := frontend.NewModel(pass.TypesInfo, index, frontend.NewInterfaces(pass.Pkg), importedDirectives(pass))
	tracker := affinity.NewTracker()

	// One result slot per function; each goroutine writes only its own.
	results := make([][]affinity.Diagnostic, len(index.Funcs))

	var g errgroup.Group
	g.SetLimit(r.workerLimit())
	for idx, fi := range index.Funcs {
		g.Go(func() error {
			var diags []affinity.Diagnostic
			reporter := affinity.ReporterFunc(func(d affinity.Diagnostic) {
				diags = append(diags, d)
			})
			if err := visit(affinity.NewSiteAnalyzer(cfg, tracker, reporter), model, fi); err != nil {
				return fmt.Errorf("%s: %w", fi.Name(), err)
			}
			results[idx] = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	diags := slices.Concat(results...)
	slices.SortStableFunc(diags, func(a, b affinity.Diagnostic) int {
		return int(a.Pos) - int(b.Pos)
	})

	reported := 0
	for _, d := range diags {
		if ok, reason := suppressions.IsSuppressed(d.Pos); ok {
			slog.Debug("suppressed diagnostic", "pos", pass.Fset.Position(d.Pos), "reason", reason)
			continue
		}
		pass.Report(analysis.Diagnostic{
			Pos:      d.Pos,
			End:      d.End,
			Category: d.Rule.ID,
			Message:  d.Message,
			URL:      url + "#" + d.Rule.ID,
		})
		reported++
	}

	slog.Debug("analyzed package",
		"package", pass.Pkg.Path(),
		"functions", len(index.Funcs),
		"sites", index.NumSites(),
		"functions_on_main_thread", tracker.Len(),
		"diagnostics", reported)
	return nil, nil
}

// visit runs the sites of one declaration through the site analyzer in
// lexical order.
func visit(sa *affinity.SiteAnalyzer, model affinity.Model, fi *sites.FuncInfo) error {
	for _, s := range fi.Sites {
		var err error
		switch s.Kind {
		case sites.Invocation:
			err = sa.AnalyzeInvocation(model, s.Node, s.Focus)
		case sites.MemberAccess:
			err = sa.AnalyzeMemberAccess(model, s.Node, s.Focus)
		case sites.Cast:
			err = sa.AnalyzeCast(model, s.Node, s.Focus)
		case sites.TypeTest:
			err = sa.AnalyzeTypeTest(model, s.Node, s.Focus)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", s.Kind, err)
		}
	}
	return nil
}

// exportDirectives exports a fact for every function of the package whose doc
// comment carries a main-thread directive.
func exportDirectives(pass *analysis.Pass) {
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			d := directive.Of(fn)
			if !d.EstablishesMainThread() {
				continue
			}
			obj, ok := pass.TypesInfo.Defs[fn.Name].(*types.Func)
			if !ok {
				continue
			}
			pass.ExportObjectFact(obj, &establishesFact{Directive: d})
		}
	}
}

// importedDirectives resolves the directive facts of every function the
// package refers to. Facts are imported here, before any worker starts, since
// Pass methods must not be called concurrently.
func importedDirectives(pass *analysis.Pass) frontend.EstablishesFunc {
	establishing := make(map[*types.Func]bool)
	for _, obj := range pass.TypesInfo.Uses {
		fn, ok := obj.(*types.Func)
		if !ok {
			continue
		}
		fn = fn.Origin()
		if _, seen := establishing[fn]; seen {
			continue
		}
		var fact establishesFact
		establishing[fn] = pass.ImportObjectFact(fn, &fact) && fact.Directive.EstablishesMainThread()
	}
	return func(fn *types.Func) bool {
		return establishing[fn]
	}
}
