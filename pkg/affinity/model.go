package affinity

// Type is a resolved type symbol.
type Type interface {
	// Name is the simple, unqualified type name.
	Name() string

	// IsInterface reports whether the type is an interface type.
	IsInterface() bool

	// Assembly is the name of the unit that declares the type. For Go this
	// is the package path. Empty when unknown.
	Assembly() string

	// Namespace is the path of the namespace that declares the type. For Go
	// this is also the package path.
	Namespace() string
}

// Member is a resolved method, field or property symbol.
type Member interface {
	// Name is the simple member name.
	Name() string

	// IsStatic reports whether the member is used without a receiver.
	IsStatic() bool

	// DeclaringType is the type that declares the member, or nil for
	// package-level functions.
	DeclaringType() Type
}

// Establisher is implemented by members that carry their own main-thread
// annotation, in addition to the configured name sets.
type Establisher interface {
	EstablishesMainThread() bool
}

// Model is the symbol resolution facility a front end supplies for one
// analysis pass. A nil result means the symbol could not be resolved.
type Model interface {
	// Invoked resolves the member called by an invocation node.
	Invoked(call Node) Member

	// Accessed resolves the member read or written by a member access node.
	Accessed(sel Node) Member

	// TargetType resolves the type named by a type expression.
	TargetType(typeExpr Node) Type

	// Interfaces returns the interfaces whose methods m implements, in a
	// stable order.
	Interfaces(m Member) []Type

	// EnclosingFunction returns the smallest function-like declaration that
	// contains n, or nil at package level.
	EnclosingFunction(n Node) Node
}
