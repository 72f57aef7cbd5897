// Package interop declares COM interfaces owned by the UI thread.
package interop

type Hierarchy interface {
	Item(id int) any
}
