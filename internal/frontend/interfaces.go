package frontend

import (
	"cmp"
	"go/types"
	"slices"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Interfaces finds the named interfaces a concrete type implements. Only
// interfaces visible from the root package (declared in it or in one of its
// transitive imports) are considered.
type Interfaces struct {
	root       *types.Package
	candidates func() []*types.Named
	cache      *xsync.Map[*types.Named, []*types.Named]
}

// NewInterfaces creates an interface index for root.
func NewInterfaces(root *types.Package) *Interfaces {
	ix := &Interfaces{
		root:  root,
		cache: xsync.NewMap[*types.Named, []*types.Named](),
	}
	ix.candidates = sync.OnceValue(ix.collect)
	return ix
}

// Implemented returns the interfaces t or *t implements, ordered by package
// path and name. Interface types and generic types yield nil.
func (ix *Interfaces) Implemented(t *types.Named) []*types.Named {
	if t == nil || types.IsInterface(t) || t.TypeParams().Len() > 0 {
		return nil
	}
	if cached, ok := ix.cache.Load(t); ok {
		return cached
	}

	var result []*types.Named
	ptr := types.NewPointer(t)
	for _, iface := range ix.candidates() {
		it := iface.Underlying().(*types.Interface)
		if types.Implements(t, it) || types.Implements(ptr, it) {
			result = append(result, iface)
		}
	}
	ix.cache.Store(t, result)
	return result
}

// collect gathers every non-generic named interface with at least one method
// from root and its transitive imports.
func (ix *Interfaces) collect() []*types.Named {
	if ix.root == nil {
		return nil
	}

	var result []*types.Named
	seen := make(map[*types.Package]bool)
	var visit func(pkg *types.Package)
	visit = func(pkg *types.Package) {
		if seen[pkg] {
			return
		}
		seen[pkg] = true
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			it, ok := named.Underlying().(*types.Interface)
			if !ok || it.NumMethods() == 0 || !it.IsMethodSet() {
				continue
			}
			result = append(result, named)
		}
		for _, imp := range pkg.Imports() {
			visit(imp)
		}
	}
	visit(ix.root)

	slices.SortFunc(result, func(a, b *types.Named) int {
		return cmp.Or(
			cmp.Compare(pkgPath(a.Obj()), pkgPath(b.Obj())),
			cmp.Compare(a.Obj().Name(), b.Obj().Name()),
		)
	})
	return result
}
