package noconfig

import (
	"microsoft.com/visualstudio/interop"
	"microsoft.com/visualstudio/shell"
)

func closeUnchecked(s interop.Solution) {
	s.Close()
}

func getService(p *shell.Package) any {
	return p.GetService("SVsSolution") // want `Package should be used on the main thread explicitly`
}
