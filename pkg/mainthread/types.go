package mainthread

import "go/token"

// Violation is one main-thread affinity finding.
type Violation struct {
	Rule     string         `json:"rule"`
	Message  string         `json:"message"`
	Position token.Position `json:"position"`
	Package  string         `json:"package"`
}

// String formats v as file:line:col: message (rule).
func (v Violation) String() string {
	return v.Position.String() + ": " + v.Message + " (" + v.Rule + ")"
}
