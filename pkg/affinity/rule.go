package affinity

import (
	"fmt"
	"go/token"
)

// Severity of a reported rule.
type Severity string

// SeverityWarning marks findings that do not fail the build on their own.
const SeverityWarning Severity = "warning"

// Rule describes one diagnostic the engine can report.
type Rule struct {
	ID            string
	Title         string
	Category      string
	MessageFormat string
	Severity      Severity
}

// MainThreadUsage is reported when a main-thread-affine symbol is used
// before its function asserted or switched to the main thread.
var MainThreadUsage = Rule{
	ID:            "MT001",
	Title:         "Use main-thread-affine types only on the main thread",
	Category:      "Usage",
	MessageFormat: "%s should be used on the main thread explicitly",
	Severity:      SeverityWarning,
}

var supportedRules = []Rule{MainThreadUsage}

// SupportedRules returns the rules this engine can report.
func SupportedRules() []Rule {
	return append([]Rule(nil), supportedRules...)
}

// Diagnostic is one reported violation.
type Diagnostic struct {
	Rule    Rule
	Pos     token.Pos
	End     token.Pos
	Symbol  string // name of the offending type
	Message string
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

func newDiagnostic(r Rule, at Node, symbol string) Diagnostic {
	return Diagnostic{
		Rule:    r,
		Pos:     at.Pos(),
		End:     at.End(),
		Symbol:  symbol,
		Message: fmt.Sprintf(r.MessageFormat, symbol),
	}
}
