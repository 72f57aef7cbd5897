// Package threading provides UI thread helpers.
package threading

import "context"

func ThrowIfNotOnUIThread() {}

type JoinableTaskFactory struct{}

func (*JoinableTaskFactory) SwitchToMainThread(ctx context.Context) error {
	return ctx.Err()
}

// VerifyAccess panics unless called on the UI thread.
//
//mainthread:asserts
func VerifyAccess() {}
