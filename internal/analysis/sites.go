// Package analysis collects the expression sites the main-thread analysis
// inspects, grouped by the top-level declaration that contains them.
package analysis

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/ast/inspector"
)

// SiteKind identifies the kind of an expression site.
type SiteKind int

const (
	// Invocation is a function or method call.
	Invocation SiteKind = iota

	// MemberAccess is a field selection, method value or method expression
	// that is not directly called.
	MemberAccess

	// Cast is an explicit conversion T(x).
	Cast

	// TypeTest is a type assertion x.(T) or a type switch case.
	TypeTest
)

// String returns the name of the site kind.
func (k SiteKind) String() string {
	switch k {
	case Invocation:
		return "invocation"
	case MemberAccess:
		return "member access"
	case Cast:
		return "cast"
	case TypeTest:
		return "type test"
	default:
		return "unknown"
	}
}

// Site is one expression to analyze.
type Site struct {
	Kind SiteKind

	// Node is the whole expression.
	Node ast.Node

	// Focus is the member name for invocations and member accesses, and the
	// type expression for casts and type tests.
	Focus ast.Node
}

// FuncInfo holds the sites of one top-level declaration in lexical order.
// Sites inside nested function literals are included.
type FuncInfo struct {
	// Decl is the *ast.FuncDecl, or the *ast.GenDecl of package-level
	// initializers.
	Decl ast.Decl

	// File is the file containing Decl.
	File *ast.File

	// Sites are the sites found in Decl, in source order.
	Sites []Site
}

// Name returns a display name for the declaration.
func (fi *FuncInfo) Name() string {
	fn, ok := fi.Decl.(*ast.FuncDecl)
	if !ok {
		return "<package level>"
	}
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		return recvName(fn.Recv.List[0].Type) + "." + fn.Name.Name
	}
	return fn.Name.Name
}

func recvName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return recvName(e.X)
	case *ast.IndexExpr:
		return recvName(e.X)
	case *ast.IndexListExpr:
		return recvName(e.X)
	case *ast.ParenExpr:
		return recvName(e.X)
	case *ast.Ident:
		return e.Name
	default:
		return "?"
	}
}

// Index is the result of Collect.
type Index struct {
	// Funcs lists the declarations that contain at least one site, in source
	// order.
	Funcs []*FuncInfo

	enclosing map[ast.Node]ast.Node
}

// EnclosingFunction returns the innermost *ast.FuncDecl or *ast.FuncLit that
// contains the site node n, or nil for package-level sites.
func (ix *Index) EnclosingFunction(n ast.Node) ast.Node {
	return ix.enclosing[n]
}

// NumSites returns the total number of collected sites.
func (ix *Index) NumSites() int {
	n := 0
	for _, fi := range ix.Funcs {
		n += len(fi.Sites)
	}
	return n
}

// Collect walks the files of insp in source order and records every site.
// Files for which skip returns true are ignored; skip may be nil.
func Collect(insp *inspector.Inspector, info *types.Info, skip func(*ast.File) bool) *Index {
	ix := &Index{enclosing: make(map[ast.Node]ast.Node)}
	c := collector{
		ix:      ix,
		info:    info,
		skip:    skip,
		byDecl:  make(map[ast.Decl]*FuncInfo),
		callees: make(map[ast.Node]bool),
	}

	nodeFilter := []ast.Node{
		(*ast.File)(nil),
		(*ast.CallExpr)(nil),
		(*ast.SelectorExpr)(nil),
		(*ast.TypeAssertExpr)(nil),
		(*ast.CaseClause)(nil),
	}
	insp.WithStack(nodeFilter, c.visit)
	return ix
}

type collector struct {
	ix      *Index
	info    *types.Info
	skip    func(*ast.File) bool
	byDecl  map[ast.Decl]*FuncInfo
	callees map[ast.Node]bool
}

func (c *collector) visit(n ast.Node, push bool, stack []ast.Node) bool {
	if !push {
		return true
	}
	if file, ok := n.(*ast.File); ok {
		return c.skip == nil || !c.skip(file)
	}

	switch n := n.(type) {
	case *ast.CallExpr:
		fun := ast.Unparen(n.Fun)
		if tv, ok := c.info.Types[fun]; ok && tv.IsType() {
			c.add(stack, Site{Kind: Cast, Node: n, Focus: fun})
			return true
		}
		name := calleeName(fun)
		// Calling a func-typed field still reads the field.
		if sel, ok := unwrapInstance(fun).(*ast.SelectorExpr); ok && !c.isField(sel) {
			c.callees[sel] = true
		}
		c.add(stack, Site{Kind: Invocation, Node: n, Focus: name})

	case *ast.SelectorExpr:
		if c.callees[n] {
			return true
		}
		if _, ok := c.info.Selections[n]; !ok {
			return true // qualified identifier
		}
		c.add(stack, Site{Kind: MemberAccess, Node: n, Focus: n.Sel})

	case *ast.TypeAssertExpr:
		if n.Type != nil {
			c.add(stack, Site{Kind: TypeTest, Node: n, Focus: n.Type})
		}

	case *ast.CaseClause:
		if !inTypeSwitch(stack) {
			return true
		}
		for _, expr := range n.List {
			if c.isNil(expr) {
				continue
			}
			c.add(stack, Site{Kind: TypeTest, Node: expr, Focus: expr})
		}
	}
	return true
}

// add records s under the top-level declaration on the stack.
func (c *collector) add(stack []ast.Node, s Site) {
	file, ok := stack[0].(*ast.File)
	if !ok || len(stack) < 2 {
		return
	}
	decl, ok := stack[1].(ast.Decl)
	if !ok {
		return
	}

	fi := c.byDecl[decl]
	if fi == nil {
		fi = &FuncInfo{Decl: decl, File: file}
		c.byDecl[decl] = fi
		c.ix.Funcs = append(c.ix.Funcs, fi)
	}
	fi.Sites = append(fi.Sites, s)

	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i].(type) {
		case *ast.FuncDecl, *ast.FuncLit:
			c.ix.enclosing[s.Node] = stack[i]
			return
		}
	}
}

func (c *collector) isField(sel *ast.SelectorExpr) bool {
	s, ok := c.info.Selections[sel]
	return ok && s.Kind() == types.FieldVal
}

func (c *collector) isNil(expr ast.Expr) bool {
	if tv, ok := c.info.Types[expr]; ok && tv.IsNil() {
		return true
	}
	id, ok := ast.Unparen(expr).(*ast.Ident)
	if !ok {
		return false
	}
	_, isNil := c.info.Uses[id].(*types.Nil)
	return isNil
}

// calleeName returns the node naming the called function: the selector of a
// method call or the identifier of a plain call.
func calleeName(fun ast.Expr) ast.Node {
	switch f := unwrapInstance(fun).(type) {
	case *ast.SelectorExpr:
		return f.Sel
	case *ast.Ident:
		return f
	default:
		return fun
	}
}

// unwrapInstance strips generic instantiation and parentheses.
func unwrapInstance(expr ast.Expr) ast.Expr {
	for {
		switch e := expr.(type) {
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		default:
			return expr
		}
	}
}

func inTypeSwitch(stack []ast.Node) bool {
	// stack ends with ... TypeSwitchStmt, BlockStmt, CaseClause
	if len(stack) < 3 {
		return false
	}
	_, ok := stack[len(stack)-3].(*ast.TypeSwitchStmt)
	return ok
}
