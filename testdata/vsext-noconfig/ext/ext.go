package ext

import "microsoft.com/visualstudio/shell"

type Extension struct {
	pkg *shell.Package
	sp  *shell.ServiceProvider
}

func (e *Extension) Init() error {
	return e.pkg.Initialize()
}

func (e *Extension) Service() any {
	return e.pkg.GetService("SVsSolution")
}

func (e *Extension) Provider() any {
	return e.sp.GetService("SVsShell")
}

func (e *Extension) Suppressed() any {
	//nolint:mainthread // resolved during package load
	return e.sp.GetService("SVsShell")
}
