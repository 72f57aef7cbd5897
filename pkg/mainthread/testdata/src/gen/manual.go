package gen

import "microsoft.com/visualstudio/interop"

func Name(s interop.Solution) string {
	return s.Name() // want `Solution should be used on the main thread explicitly`
}
