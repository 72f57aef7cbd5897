package frontend

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/715d/mainthread/internal/analysis"
	"github.com/715d/mainthread/pkg/affinity"
)

// EstablishesFunc reports whether calling fn establishes main-thread context
// through a source annotation.
type EstablishesFunc func(fn *types.Func) bool

// Model resolves the sites of one type-checked package. It is safe for
// concurrent use once built.
type Model struct {
	info        *types.Info
	index       *analysis.Index
	ifaces      *Interfaces
	establishes EstablishesFunc
}

var _ affinity.Model = (*Model)(nil)

// NewModel returns a model over info. establishes may be nil.
func NewModel(info *types.Info, index *analysis.Index, ifaces *Interfaces, establishes EstablishesFunc) *Model {
	if establishes == nil {
		establishes = func(*types.Func) bool { return false }
	}
	return &Model{
		info:        info,
		index:       index,
		ifaces:      ifaces,
		establishes: establishes,
	}
}

// Invoked implements affinity.Model. Calls through function values and
// builtins do not resolve.
func (m *Model) Invoked(call affinity.Node) affinity.Member {
	ce, ok := call.(*ast.CallExpr)
	if !ok {
		return nil
	}
	fn, ok := typeutil.Callee(m.info, ce).(*types.Func)
	if !ok {
		return nil
	}
	var recv types.Type
	if se, ok := ast.Unparen(ce.Fun).(*ast.SelectorExpr); ok {
		if sel, ok := m.info.Selections[se]; ok {
			recv = sel.Recv()
		}
	}
	return m.funcMember(fn, recv)
}

// Accessed implements affinity.Model.
func (m *Model) Accessed(sel affinity.Node) affinity.Member {
	se, ok := sel.(*ast.SelectorExpr)
	if !ok {
		return nil
	}
	selection, ok := m.info.Selections[se]
	if !ok {
		return nil
	}

	switch obj := selection.Obj().(type) {
	case *types.Func:
		return m.funcMember(obj, selection.Recv())
	case *types.Var:
		return &Member{obj: obj.Origin(), decl: fieldOwner(selection)}
	default:
		return nil
	}
}

// TargetType implements affinity.Model.
func (m *Model) TargetType(typeExpr affinity.Node) affinity.Type {
	expr, ok := typeExpr.(ast.Expr)
	if !ok {
		return nil
	}
	tv, ok := m.info.Types[expr]
	if !ok || !tv.IsType() {
		return nil
	}
	if t := NewType(tv.Type); t != nil {
		return t
	}
	return nil
}

// Interfaces implements affinity.Model.
func (m *Model) Interfaces(member affinity.Member) []affinity.Type {
	mm, ok := member.(*Member)
	if !ok || mm.decl == nil || m.ifaces == nil {
		return nil
	}
	if _, ok := mm.obj.(*types.Func); !ok {
		return nil
	}

	var result []affinity.Type
	for _, iface := range m.ifaces.Implemented(mm.decl) {
		if hasMethod(iface, mm.obj.Name()) {
			result = append(result, &Type{named: iface})
		}
	}
	return result
}

// EnclosingFunction implements affinity.Model.
func (m *Model) EnclosingFunction(n affinity.Node) affinity.Node {
	node, ok := n.(ast.Node)
	if !ok {
		return nil
	}
	if fn := m.index.EnclosingFunction(node); fn != nil {
		return fn
	}
	return nil
}

// funcMember wraps fn. recv is the receiver type of the selection naming fn,
// if any; it stands in for the declaring type of interface methods whose
// receiver is the bare interface.
func (m *Model) funcMember(fn *types.Func, recv types.Type) *Member {
	fn = fn.Origin()
	decl := receiverType(fn)
	if decl == nil && fn.Signature().Recv() != nil && recv != nil && types.IsInterface(recv) {
		if named := namedOf(recv); named != nil {
			decl = named.Origin()
		}
	}
	return &Member{
		obj:         fn,
		decl:        decl,
		establishes: m.establishes(fn),
	}
}

// fieldOwner returns the named struct type that declares the selected field,
// following embedded fields.
func fieldOwner(sel *types.Selection) *types.Named {
	t := sel.Recv()
	index := sel.Index()
	for _, i := range index[:len(index)-1] {
		st, ok := structOf(t)
		if !ok || i >= st.NumFields() {
			return nil
		}
		t = st.Field(i).Type()
	}
	if named := namedOf(t); named != nil {
		return named.Origin()
	}
	return nil
}

func structOf(t types.Type) (*types.Struct, bool) {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	return st, ok
}

func hasMethod(iface *types.Named, name string) bool {
	it, ok := iface.Underlying().(*types.Interface)
	if !ok {
		return false
	}
	for i := range it.NumMethods() {
		if it.Method(i).Name() == name {
			return true
		}
	}
	return false
}
