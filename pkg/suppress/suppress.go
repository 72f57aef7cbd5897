// Package suppress implements comment-based suppression of linter findings.
package suppress

import (
	"fmt"
	"go/ast"
	"go/token"
	"regexp"
	"strings"
)

// Linter is the name suppression comments refer to.
const Linter = "mainthread"

// Checker handles nolint and lint:ignore comment suppression.
type Checker struct {
	// suppressions maps a file line to the suppression reason
	suppressions map[lineKey]string

	// fset is the file set for position calculations
	fset *token.FileSet
}

type lineKey struct {
	file string
	line int
}

// Suppression represents a parsed suppression directive.
type Suppression struct {
	Position token.Pos
	Reason   string
	Type     SuppressionType
}

// SuppressionType represents different types of suppression comments.
type SuppressionType int

const (
	// SuppressionNolint represents //nolint:mainthread comments.
	SuppressionNolint SuppressionType = iota

	// SuppressionLintIgnore represents //lint:ignore mainthread comments.
	SuppressionLintIgnore
)

// Suppression patterns for different comment styles.
var (
	// nolintPattern matches //nolint:mainthread comments
	nolintPattern = regexp.MustCompile(`^//\s*nolint:` + Linter + `(?:\s+//\s*(.+))?$`)

	// lintIgnorePattern matches //lint:ignore mainthread comments
	lintIgnorePattern = regexp.MustCompile(`^//\s*lint:ignore\s+` + Linter + `(?:\s+(.+))?$`)

	// genericNolintPattern matches //nolint comments without specific linter
	genericNolintPattern = regexp.MustCompile(`^//\s*nolint(?:\s|$)`)

	// nolintWithMultipleRules matches nolint with multiple comma-separated rules
	nolintWithMultipleRules = regexp.MustCompile(`^//\s*nolint:([^/\s]+)`)
)

// NewChecker creates a new suppression checker.
func NewChecker() *Checker {
	return &Checker{
		suppressions: make(map[lineKey]string),
	}
}

// Load parses suppression comments from AST files. A suppression covers the
// line of the comment, and also the line after it when the comment stands
// alone on its line.
func (sc *Checker) Load(fset *token.FileSet, files []*ast.File) error {
	if fset == nil {
		return fmt.Errorf("fset cannot be nil")
	}
	if files == nil {
		return fmt.Errorf("files cannot be nil")
	}
	sc.fset = fset

	for _, file := range files {
		code := codeStarts(fset, file)
		for _, commentGroup := range file.Comments {
			for _, comment := range commentGroup.List {
				suppression := sc.parseComment(comment)
				if suppression == nil {
					continue
				}
				reason := suppression.Reason
				if reason == "" {
					reason = "suppressed"
				}
				pos := fset.Position(comment.Pos())
				sc.suppressions[lineKey{pos.Filename, pos.Line}] = reason
				if first, ok := code[pos.Line]; !ok || first > comment.Pos() {
					sc.suppressions[lineKey{pos.Filename, pos.Line + 1}] = reason
				}
			}
		}
	}

	return nil
}

// codeStarts maps each line of file to the first position of code on it.
func codeStarts(fset *token.FileSet, file *ast.File) map[int]token.Pos {
	starts := make(map[int]token.Pos)
	mark := func(p token.Pos) {
		line := fset.Position(p).Line
		if first, ok := starts[line]; !ok || p < first {
			starts[line] = p
		}
	}
	ast.Inspect(file, func(n ast.Node) bool {
		switch n.(type) {
		case nil, *ast.CommentGroup, *ast.Comment:
			return false
		}
		mark(n.Pos())
		mark(n.End() - 1)
		return true
	})
	return starts
}

// parseComment parses a comment to check if it's a suppression directive.
func (sc *Checker) parseComment(comment *ast.Comment) *Suppression {
	text := strings.TrimSpace(comment.Text)

	if matches := nolintPattern.FindStringSubmatch(text); matches != nil {
		return &Suppression{
			Position: comment.Pos(),
			Reason:   strings.TrimSpace(matches[1]),
			Type:     SuppressionNolint,
		}
	}

	if matches := lintIgnorePattern.FindStringSubmatch(text); matches != nil {
		return &Suppression{
			Position: comment.Pos(),
			Reason:   strings.TrimSpace(matches[1]),
			Type:     SuppressionLintIgnore,
		}
	}

	if genericNolintPattern.MatchString(text) {
		return &Suppression{
			Position: comment.Pos(),
			Type:     SuppressionNolint,
		}
	}

	if matches := nolintWithMultipleRules.FindStringSubmatch(text); len(matches) > 1 {
		for rule := range strings.SplitSeq(matches[1], ",") {
			if strings.TrimSpace(rule) != Linter {
				continue
			}
			// Extract reason if present.
			reason := ""
			if _, after, ok := strings.Cut(text[2:], "//"); ok {
				reason = strings.TrimSpace(after)
			}
			return &Suppression{
				Position: comment.Pos(),
				Reason:   reason,
				Type:     SuppressionNolint,
			}
		}
	}

	return nil
}

// IsSuppressed checks if a finding at the given position is suppressed.
func (sc *Checker) IsSuppressed(pos token.Pos) (bool, string) {
	if sc.fset == nil || !pos.IsValid() {
		return false, ""
	}
	p := sc.fset.Position(pos)
	if reason, exists := sc.suppressions[lineKey{p.Filename, p.Line}]; exists {
		return true, reason
	}
	return false, ""
}
