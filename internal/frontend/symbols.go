// Package frontend implements the affinity engine's symbol model on top of
// go/types.
package frontend

import (
	"go/types"

	"github.com/715d/mainthread/pkg/affinity"
)

// Type adapts a named Go type to affinity.Type.
type Type struct {
	named *types.Named
}

// NewType returns the affinity type for t, or nil when t (after removing
// pointers and aliases) is not a named type.
func NewType(t types.Type) *Type {
	named := namedOf(t)
	if named == nil {
		return nil
	}
	return &Type{named: named.Origin()}
}

// Named returns the underlying named type.
func (t *Type) Named() *types.Named { return t.named }

// Name implements affinity.Type.
func (t *Type) Name() string { return t.named.Obj().Name() }

// IsInterface implements affinity.Type.
func (t *Type) IsInterface() bool { return types.IsInterface(t.named) }

// Assembly implements affinity.Type. Go has no assemblies; the declaring
// package path plays that role.
func (t *Type) Assembly() string { return pkgPath(t.named.Obj()) }

// Namespace implements affinity.Type.
func (t *Type) Namespace() string { return pkgPath(t.named.Obj()) }

// Member adapts a field or function object to affinity.Member.
type Member struct {
	obj         types.Object
	decl        *types.Named
	establishes bool
}

// Object returns the underlying field or function object.
func (m *Member) Object() types.Object { return m.obj }

// Name implements affinity.Member.
func (m *Member) Name() string { return m.obj.Name() }

// IsStatic implements affinity.Member. Functions without a receiver are
// static; fields and methods are not.
func (m *Member) IsStatic() bool {
	fn, ok := m.obj.(*types.Func)
	if !ok {
		return false
	}
	return fn.Signature().Recv() == nil
}

// DeclaringType implements affinity.Member. The result is an untyped nil for
// package-level functions so callers can compare it against nil.
func (m *Member) DeclaringType() affinity.Type {
	if m.decl == nil {
		return nil
	}
	return &Type{named: m.decl}
}

// EstablishesMainThread implements affinity.Establisher.
func (m *Member) EstablishesMainThread() bool { return m.establishes }

func pkgPath(obj types.Object) string {
	if obj.Pkg() == nil {
		return ""
	}
	return obj.Pkg().Path()
}

// namedOf strips pointers and aliases and returns the named type, if any.
func namedOf(t types.Type) *types.Named {
	if t == nil {
		return nil
	}
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	named, _ := t.(*types.Named)
	return named
}

// receiverType returns the named type declaring method fn, or nil.
func receiverType(fn *types.Func) *types.Named {
	recv := fn.Signature().Recv()
	if recv == nil {
		return nil
	}
	if named := namedOf(recv.Type()); named != nil {
		return named.Origin()
	}
	return nil
}
