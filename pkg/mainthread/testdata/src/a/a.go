package a

import (
	"context"

	"example.com/threading"
	"example.com/uihelper"
	"microsoft.com/visualstudio/interop"
	"microsoft.com/visualstudio/shell"
)

var provided = shell.NewServiceProvider().QueryService("SVsShell") // want `ServiceProvider should be used on the main thread explicitly`

func closeUnchecked(s interop.Solution) {
	s.Close() // want `Solution should be used on the main thread explicitly`
}

func closeAfterAssert(s interop.Solution) {
	threading.ThrowIfNotOnUIThread()
	s.Close()
}

func closeAfterSwitch(ctx context.Context, jtf *threading.JoinableTaskFactory, s interop.Solution) error {
	if err := jtf.SwitchToMainThread(ctx); err != nil {
		return err
	}
	return s.Close()
}

func useThenAssert(s interop.Solution) string {
	_ = s.Close() // want `Solution should be used on the main thread explicitly`
	threading.ThrowIfNotOnUIThread()
	return s.Name()
}

func everyUse(s interop.Solution) {
	s.Close() // want `Solution should be used on the main thread explicitly`
	s.Name()  // want `Solution should be used on the main thread explicitly`
}

func getService(p *shell.Package) any {
	_ = p.Name()
	return p.GetService("SVsSolution") // want `Package should be used on the main thread explicitly`
}

func getServiceAfterAssert(p *shell.Package) any {
	threading.ThrowIfNotOnUIThread()
	return p.GetService("SVsSolution")
}

func queryService(sp *shell.ServiceProvider) any {
	return sp.QueryService("SVsShell") // want `ServiceProvider should be used on the main thread explicitly`
}

func newProvider() *shell.ServiceProvider {
	return shell.NewServiceProvider()
}

func methodValue(s interop.Solution) func() error {
	return s.Close // want `Solution should be used on the main thread explicitly`
}

type solution struct{}

func (*solution) Close() error { return nil }

func (*solution) Name() string { return "solution" }

func (*solution) Path() string { return "" }

func closeConcrete(s *solution) {
	s.Close() // want `Solution should be used on the main thread explicitly`
	s.Path()
}

func convert(s *solution) interop.Solution {
	return interop.Solution(s) // want `Solution should be used on the main thread explicitly`
}

func typeTests(x any) {
	if s, ok := x.(interop.Solution); ok { // want `Solution should be used on the main thread explicitly`
		_ = s
	}
	switch x.(type) {
	case interop.Frame: // want `Frame should be used on the main thread explicitly`
	case nil:
	}
}

func typeTestsAfterAssert(x any) bool {
	threading.ThrowIfNotOnUIThread()
	_, ok := x.(interop.Frame)
	return ok
}

func closure(s interop.Solution) {
	threading.ThrowIfNotOnUIThread()
	go func() {
		s.Close() // want `Solution should be used on the main thread explicitly`
	}()
}

func assertInClosure(s interop.Solution) func() {
	return func() {
		threading.ThrowIfNotOnUIThread()
		s.Close()
	}
}

func conditional(s interop.Solution, check bool) {
	if check {
		threading.ThrowIfNotOnUIThread()
	}
	s.Close()
}

func indirectAssert(s interop.Solution) {
	fn := threading.ThrowIfNotOnUIThread
	fn()
	s.Close() // want `Solution should be used on the main thread explicitly`
}

func crossPackageDirective(s interop.Solution) {
	uihelper.VerifyAccess()
	s.Close()
}

//mainthread:switches
func toMain() {} // want toMain:"mainthread:switches"

func localDirective(s interop.Solution) {
	toMain()
	s.Close()
}

func suppressed(s interop.Solution) {
	s.Close() //nolint:mainthread // runs from the dispatcher callback
	//lint:ignore mainthread legacy code path
	s.Name()
}

func trailingSuppression(s interop.Solution) {
	s.Close() //nolint:mainthread
	s.Close() // want `Solution should be used on the main thread explicitly`
}
