package affinity

import "go/token"

// node is a fake syntax node; distinct pointers are distinct identities.
type node struct {
	pos, end token.Pos
}

func (n *node) Pos() token.Pos { return n.pos }
func (n *node) End() token.Pos { return n.end }

var nextPos token.Pos = 1

func newNode() *node {
	n := &node{pos: nextPos, end: nextPos + 5}
	nextPos += 10
	return n
}

type fakeType struct {
	name      string
	iface     bool
	assembly  string
	namespace string
}

func (t *fakeType) Name() string      { return t.name }
func (t *fakeType) IsInterface() bool { return t.iface }
func (t *fakeType) Assembly() string  { return t.assembly }
func (t *fakeType) Namespace() string { return t.namespace }

type fakeMember struct {
	name   string
	static bool
	decl   Type
}

func (m *fakeMember) Name() string        { return m.name }
func (m *fakeMember) IsStatic() bool      { return m.static }
func (m *fakeMember) DeclaringType() Type { return m.decl }

type annotatedMember struct {
	fakeMember
}

func (*annotatedMember) EstablishesMainThread() bool { return true }

type fakeModel struct {
	invoked    map[Node]Member
	accessed   map[Node]Member
	types      map[Node]Type
	interfaces map[Member][]Type
	enclosing  map[Node]Node
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		invoked:    make(map[Node]Member),
		accessed:   make(map[Node]Member),
		types:      make(map[Node]Type),
		interfaces: make(map[Member][]Type),
		enclosing:  make(map[Node]Node),
	}
}

func (m *fakeModel) Invoked(call Node) Member      { return m.invoked[call] }
func (m *fakeModel) Accessed(sel Node) Member      { return m.accessed[sel] }
func (m *fakeModel) TargetType(expr Node) Type     { return m.types[expr] }
func (m *fakeModel) Interfaces(mem Member) []Type  { return m.interfaces[mem] }
func (m *fakeModel) EnclosingFunction(n Node) Node { return m.enclosing[n] }

// call registers an invocation of mem inside fn and returns the call and
// method name nodes.
func (m *fakeModel) call(fn Node, mem Member) (call, name *node) {
	call, name = newNode(), newNode()
	m.invoked[call] = mem
	m.enclosing[call] = fn
	return call, name
}

func (m *fakeModel) access(fn Node, mem Member) (sel, name *node) {
	sel, name = newNode(), newNode()
	m.accessed[sel] = mem
	m.enclosing[sel] = fn
	return sel, name
}

func (m *fakeModel) typeOperand(fn Node, t Type) (expr, typeExpr *node) {
	expr, typeExpr = newNode(), newNode()
	if t != nil {
		m.types[typeExpr] = t
	}
	m.enclosing[expr] = fn
	return expr, typeExpr
}

type collector struct {
	diags []Diagnostic
}

func (c *collector) Report(d Diagnostic) { c.diags = append(c.diags, d) }
