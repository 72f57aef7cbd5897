package affinity

import (
	"go/token"

	"github.com/puzpuzpuz/xsync/v4"
)

// Node is a syntax node with a source span. Every ast.Node satisfies it.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Tracker maps enclosing function declarations to their current Affinity.
//
// One Tracker belongs to one analysis pass and is safe for concurrent use by
// the site visitors of that pass.
type Tracker struct {
	facts *xsync.Map[Node, Affinity]
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{facts: xsync.NewMap[Node, Affinity]()}
}

// RecordMainThread marks fn as running on the main thread from here on.
func (t *Tracker) RecordMainThread(fn Node) {
	t.Record(fn, MainThread)
}

// Record merges a into the fact stored for fn as one atomic update.
func (t *Tracker) Record(fn Node, a Affinity) {
	if fn == nil {
		return
	}
	t.facts.Compute(fn, func(old Affinity, loaded bool) (Affinity, xsync.ComputeOp) {
		merged := Merge(old, a)
		if loaded && merged == old {
			return old, xsync.CancelOp
		}
		return merged, xsync.UpdateOp
	})
}

// Fact returns the fact recorded for fn, or Unknown.
func (t *Tracker) Fact(fn Node) Affinity {
	if fn == nil {
		return Unknown
	}
	a, _ := t.facts.Load(fn)
	return a
}

// Len returns the number of functions with a recorded fact.
func (t *Tracker) Len() int {
	return t.facts.Size()
}
