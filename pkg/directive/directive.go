// Package directive parses //mainthread: directives in function doc comments.
package directive

import (
	"go/ast"
	"strings"
	"unicode"
)

// Type represents the kind of a mainthread directive.
type Type int

const (
	None     Type = iota
	Asserts       // //mainthread:asserts
	Switches      // //mainthread:switches
)

const prefix = "mainthread:"

var directives = map[string]Type{
	"asserts":  Asserts,
	"switches": Switches,
}

// String returns the directive text without the comment marker.
func (t Type) String() string {
	switch t {
	case Asserts:
		return prefix + "asserts"
	case Switches:
		return prefix + "switches"
	default:
		return ""
	}
}

// EstablishesMainThread reports whether a function carrying t leaves its
// caller on the main thread.
func (t Type) EstablishesMainThread() bool {
	return t == Asserts || t == Switches
}

// Of returns the first mainthread directive in fn's doc comment, or None.
func Of(fn *ast.FuncDecl) Type {
	if fn == nil || fn.Doc == nil {
		return None
	}

	for _, comment := range fn.Doc.List {
		if t := Parse(comment.Text); t != None {
			return t
		}
	}
	return None
}

// Parse parses a single comment. Directives have no space after "//" and may
// be followed by whitespace and free text.
func Parse(comment string) Type {
	text, ok := strings.CutPrefix(comment, "//"+prefix)
	if !ok {
		return None
	}

	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		text = text[:i]
	}
	return directives[text]
}
