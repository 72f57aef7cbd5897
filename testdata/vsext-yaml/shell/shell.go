// Package shell mirrors the service surface of the IDE shell.
package shell

type ServiceProvider struct{}

func (*ServiceProvider) QueryService(id string) any { return nil }

func VerifyOnUIThread() {}
