package ext

import (
	"example.com/legacy/interop"
	"example.com/legacy/shell"
)

type node struct{}

func (node) Item(id int) any { return nil }

func Wrap() interop.Hierarchy {
	return interop.Hierarchy(node{})
}

func Query(sp *shell.ServiceProvider) any {
	shell.VerifyOnUIThread()
	return sp.QueryService("SVsShell")
}

func Lookup(sp *shell.ServiceProvider) any {
	return sp.QueryService("SVsShell")
}

func Describe(x any) string {
	switch x.(type) {
	case interop.Hierarchy:
		return "hierarchy"
	case nil:
		return "nil"
	}
	return "other"
}
