package threading

import "context"

func ThrowIfNotOnUIThread() {}

type JoinableTaskFactory struct{}

func (*JoinableTaskFactory) SwitchToMainThread(ctx context.Context) error {
	return ctx.Err()
}
