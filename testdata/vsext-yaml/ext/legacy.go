//go:build legacy

package ext

import "example.com/legacy/interop"

func Items(h interop.Hierarchy) any {
	return h.Item(0)
}
