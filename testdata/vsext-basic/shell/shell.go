// Package shell mirrors the service surface of the IDE shell.
package shell

type Package struct {
	Name string
}

func (p *Package) GetService(id string) any { return nil }

type ServiceProvider struct{}

func (sp *ServiceProvider) QueryService(id string) any { return nil }

func GlobalProvider() *ServiceProvider { return &ServiceProvider{} }
