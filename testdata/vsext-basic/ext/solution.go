package ext

import (
	"context"

	"example.com/vsext/interop"
	"example.com/vsext/shell"
	"example.com/vsext/threading"
)

func CloseUnchecked(s interop.Solution) error {
	return s.Close()
}

func CloseChecked(s interop.Solution) error {
	threading.ThrowIfNotOnUIThread()
	return s.Close()
}

func CloseAfterSwitch(ctx context.Context, jtf *threading.JoinableTaskFactory, s interop.Solution) error {
	if err := jtf.SwitchToMainThread(ctx); err != nil {
		return err
	}
	return s.Close()
}

func CloseVerified(s interop.Solution) error {
	threading.VerifyAccess()
	return s.Close()
}

func Services(p *shell.Package) any {
	_ = p.Name
	return p.GetService("SVsSolution")
}

func Show(x any) error {
	if f, ok := x.(interop.Frame); ok {
		return f.Show()
	}
	return nil
}

func Provider() any {
	return shell.GlobalProvider().QueryService("SVsShell") //nolint:mainthread // only called during package load
}
