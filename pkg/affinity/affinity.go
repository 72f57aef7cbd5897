// Package affinity implements the main-thread affinity inference engine.
//
// The engine classifies symbols that must only be used on the main thread and
// tracks, per enclosing function, whether an earlier call in that function
// asserted or switched to the main thread. Tracking follows lexical order
// only: branches, loops and early returns are not modeled, so an assert inside
// an if statement marks the rest of the function as main-thread context.
package affinity

// Affinity is the thread state established within one function scope.
type Affinity int

const (
	// Unknown means nothing was asserted or switched to yet, or the state is
	// ambiguous.
	Unknown Affinity = iota

	// MainThread means an asserting or switching call was observed earlier in
	// the function.
	MainThread

	// NotMainThread means the function is known to run off the main thread.
	// The site analyzer never produces it.
	NotMainThread
)

// String returns the name of the affinity value.
func (a Affinity) String() string {
	switch a {
	case Unknown:
		return "unknown"
	case MainThread:
		return "main-thread"
	case NotMainThread:
		return "not-main-thread"
	default:
		return "invalid"
	}
}

// Merge returns the fact that results from recording next on top of cur.
// MainThread is terminal: it is never downgraded within a pass.
func Merge(cur, next Affinity) Affinity {
	switch {
	case cur == next:
		return cur
	case cur == MainThread:
		return MainThread
	case next == Unknown:
		return cur
	default:
		return next
	}
}
