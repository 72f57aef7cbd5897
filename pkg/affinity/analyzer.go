package affinity

import "fmt"

// SiteAnalyzer inspects expression sites inside function bodies and reports
// uses of main-thread-affine symbols that happen before the enclosing function
// established main-thread context.
//
// Sites of one function must be visited in lexical order for assert-then-use
// detection to work. Sites of different functions may be visited concurrently.
type SiteAnalyzer struct {
	cfg        *Config
	classifier *Classifier
	tracker    *Tracker
	reporter   Reporter
}

// NewSiteAnalyzer creates an analyzer for one pass. The tracker must not be
// shared with other passes.
func NewSiteAnalyzer(cfg *Config, tracker *Tracker, reporter Reporter) *SiteAnalyzer {
	return &SiteAnalyzer{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		tracker:    tracker,
		reporter:   reporter,
	}
}

// AnalyzeInvocation handles a call. name is the sub-node holding the method
// name and is where a diagnostic is anchored.
func (a *SiteAnalyzer) AnalyzeInvocation(model Model, call, name Node) error {
	method := model.Invoked(call)
	if method == nil {
		return nil
	}

	if a.establishes(method) {
		if fn := model.EnclosingFunction(call); fn != nil {
			a.tracker.RecordMainThread(fn)
			return nil
		}
	}

	if name == nil {
		name = call
	}

	if t := method.DeclaringType(); t != nil {
		reported, err := a.analyzeType(model, call, name, t, method)
		if err != nil || reported {
			return err
		}
	}

	for _, iface := range model.Interfaces(method) {
		reported, err := a.analyzeType(model, call, name, iface, method)
		if err != nil || reported {
			return err
		}
	}
	return nil
}

// AnalyzeMemberAccess handles a field read or write, a method value or a
// method expression.
func (a *SiteAnalyzer) AnalyzeMemberAccess(model Model, sel, name Node) error {
	member := model.Accessed(sel)
	if member == nil {
		return nil
	}
	t := member.DeclaringType()
	if t == nil {
		return nil
	}
	if name == nil {
		name = sel
	}
	_, err := a.analyzeType(model, sel, name, t, member)
	return err
}

// AnalyzeCast handles an explicit conversion to the type named by typeExpr.
func (a *SiteAnalyzer) AnalyzeCast(model Model, conv, typeExpr Node) error {
	return a.analyzeTypeOperand(model, conv, typeExpr)
}

// AnalyzeTypeTest handles a type assertion or a type switch case naming the
// type in typeExpr.
func (a *SiteAnalyzer) AnalyzeTypeTest(model Model, expr, typeExpr Node) error {
	return a.analyzeTypeOperand(model, expr, typeExpr)
}

func (a *SiteAnalyzer) analyzeTypeOperand(model Model, site, typeExpr Node) error {
	t := model.TargetType(typeExpr)
	if t == nil {
		return nil
	}
	_, err := a.analyzeType(model, site, site, t, nil)
	return err
}

func (a *SiteAnalyzer) establishes(m Member) bool {
	if a.cfg.IsAsserting(m.Name()) || a.cfg.IsSwitching(m.Name()) {
		return true
	}
	e, ok := m.(Establisher)
	return ok && e.EstablishesMainThread()
}

// analyzeType reports at focus when t requires the main thread and the
// function enclosing site has not established it.
func (a *SiteAnalyzer) analyzeType(model Model, site, focus Node, t Type, m Member) (bool, error) {
	requires, err := a.classifier.RequiresMainThread(t, m)
	if err != nil {
		return false, fmt.Errorf("classify %T: %w", site, err)
	}
	if !requires {
		return false, nil
	}

	if a.tracker.Fact(model.EnclosingFunction(site)) == MainThread {
		return false, nil
	}

	a.reporter.Report(newDiagnostic(MainThreadUsage, focus, t.Name()))
	return true, nil
}
