// Package interop declares COM interfaces owned by the UI thread.
package interop

type Solution interface {
	Close() error
	Name() string
}

type Frame interface {
	Show() error
}
