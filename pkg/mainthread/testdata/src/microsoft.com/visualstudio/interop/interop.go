package interop

// Solution is a COM solution object owned by the UI thread.
type Solution interface {
	Close() error
	Name() string
}

type Frame interface {
	Show() error
}
