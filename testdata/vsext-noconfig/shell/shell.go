// Package shell mirrors the service surface of the IDE shell.
package shell

type Package struct{}

func (*Package) GetService(id string) any { return nil }

func (*Package) Initialize() error { return nil }

type ServiceProvider struct{}

func (*ServiceProvider) GetService(id string) any { return nil }

func ThrowIfNotOnUIThread() {}
