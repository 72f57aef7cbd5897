package analysis

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/ast/inspector"
)

const sitesSource = `package p

type Window struct {
	Title string
}

func (w *Window) Show() {}

type Handle int

var global = Handle(1)

func Open(w *Window, x any) {
	w.Show()
	_ = w.Title
	h := Handle(2)
	_ = h
	f := w.Show
	f()
	go func() {
		w.Show()
	}()
	if _, ok := x.(*Window); ok {
		return
	}
	switch x.(type) {
	case *Window, Handle:
	case nil:
	}
	switch x {
	case global:
	}
}

func Empty() {}
`

func check(t *testing.T, src string) (*token.FileSet, *ast.File, *types.Info) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Uses:       make(map[*ast.Ident]types.Object),
		Defs:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	conf := types.Config{Importer: importer.Default()}
	_, err = conf.Check("p", fset, []*ast.File{file}, info)
	require.NoError(t, err)
	return fset, file, info
}

type siteDesc struct {
	Kind SiteKind
	Text string
	Line int
}

func describe(fset *token.FileSet, src string, s Site) siteDesc {
	start := fset.Position(s.Focus.Pos()).Offset
	end := fset.Position(s.Focus.End()).Offset
	return siteDesc{
		Kind: s.Kind,
		Text: src[start:end],
		Line: fset.Position(s.Node.Pos()).Line,
	}
}

func TestCollect(t *testing.T) {
	fset, file, info := check(t, sitesSource)
	ix := Collect(inspector.New([]*ast.File{file}), info, nil)

	require.Len(t, ix.Funcs, 2, "package-level initializer and Open")
	require.Equal(t, "<package level>", ix.Funcs[0].Name())
	require.Equal(t, "Open", ix.Funcs[1].Name())
	require.Same(t, file, ix.Funcs[1].File)

	var got []siteDesc
	for _, s := range ix.Funcs[1].Sites {
		got = append(got, describe(fset, sitesSource, s))
	}
	require.Equal(t, []siteDesc{
		{Invocation, "Show", 14},
		{MemberAccess, "Title", 15},
		{Cast, "Handle", 16},
		{MemberAccess, "Show", 18},
		{Invocation, "f", 19},
		{Invocation, "func() {\n\t\tw.Show()\n\t}", 20},
		{Invocation, "Show", 21},
		{TypeTest, "*Window", 23},
		{TypeTest, "*Window", 27},
		{TypeTest, "Handle", 27},
	}, got)

	require.Equal(t, Cast, ix.Funcs[0].Sites[0].Kind)
	require.Equal(t, 11, ix.NumSites())
}

func TestCollect_EnclosingFunction(t *testing.T) {
	_, file, info := check(t, sitesSource)
	ix := Collect(inspector.New([]*ast.File{file}), info, nil)

	open := ix.Funcs[1]
	decl := open.Decl.(*ast.FuncDecl)

	first := open.Sites[0]
	require.Same(t, decl, ix.EnclosingFunction(first.Node))

	nested := open.Sites[6]
	lit, ok := ix.EnclosingFunction(nested.Node).(*ast.FuncLit)
	require.True(t, ok, "call inside the goroutine belongs to the literal")
	require.NotNil(t, lit)

	global := ix.Funcs[0].Sites[0]
	require.Nil(t, ix.EnclosingFunction(global.Node))
}

func TestCollect_Skip(t *testing.T) {
	_, file, info := check(t, sitesSource)
	ix := Collect(inspector.New([]*ast.File{file}), info, func(*ast.File) bool { return true })
	require.Empty(t, ix.Funcs)
	require.Zero(t, ix.NumSites())
}

func TestFuncInfo_Name(t *testing.T) {
	src := `package p

type Box[T any] struct{}

func (b *Box[T]) Put() {}

func (Box[T]) Get() {}

func Free() {}
`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, 0)
	require.NoError(t, err)

	var names []string
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			names = append(names, (&FuncInfo{Decl: fn}).Name())
		}
	}
	require.Equal(t, []string{"Box.Put", "Box.Get", "Free"}, names)
}

func TestSiteKind_String(t *testing.T) {
	require.Equal(t, "invocation", Invocation.String())
	require.Equal(t, "member access", MemberAccess.String())
	require.Equal(t, "cast", Cast.String())
	require.Equal(t, "type test", TypeTest.String())
	require.Equal(t, "unknown", SiteKind(42).String())
}
