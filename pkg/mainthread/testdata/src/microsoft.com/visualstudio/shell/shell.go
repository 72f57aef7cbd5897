package shell

type Package struct{}

func (p *Package) GetService(name string) any { return nil }

func (p *Package) Name() string { return "" }

type ServiceProvider struct{}

func (sp *ServiceProvider) QueryService(name string) any { return nil }

func NewServiceProvider() *ServiceProvider { return &ServiceProvider{} }
