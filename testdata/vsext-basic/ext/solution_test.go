package ext

import (
	"testing"

	"example.com/vsext/interop"
)

type fakeSolution struct{}

func (fakeSolution) Close() error { return nil }
func (fakeSolution) Name() string { return "fake" }

func TestCloseUnchecked(t *testing.T) {
	var s interop.Solution = fakeSolution{}
	if err := CloseUnchecked(s); err != nil {
		t.Fatal(err)
	}
	_ = fakeSolution{}.Name()
}
