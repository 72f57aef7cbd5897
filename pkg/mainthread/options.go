package mainthread

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/715d/mainthread/pkg/affinity"
	"github.com/715d/mainthread/pkg/allowlist"
)

// Option configures a [New] mainthread analyzer.
type Option interface {
	apply(r *runOptions)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)
	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))
		case Options:
			as = appendOptions(as, opt)
		default:
			as = append(as, opt.LogAttr())
		}
	}
	return as
}

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}
		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithConfigDir is an [Option] naming a directory scanned for allow-list files.
func WithConfigDir(dir string) Option { return configDirOption{dir: dir} }

type configDirOption struct{ dir string }

func (o configDirOption) apply(r *runOptions) { r.configDir = o.dir }

func (o configDirOption) LogAttr() slog.Attr { return slog.String("config-dir", o.dir) }

// WithConfigFile is an [Option] naming a YAML configuration file.
func WithConfigFile(path string) Option { return configFileOption{path: path} }

type configFileOption struct{ path string }

func (o configFileOption) apply(r *runOptions) { r.configFile = o.path }

func (o configFileOption) LogAttr() slog.Attr { return slog.String("config", o.path) }

// WithAssertingMethods is an [Option] adding names of methods that assert the
// caller is on the main thread.
func WithAssertingMethods(names ...string) Option {
	return namesOption{kind: allowlist.AssertingMethods, names: names}
}

// WithSwitchingMethods is an [Option] adding names of methods that switch to
// the main thread.
func WithSwitchingMethods(names ...string) Option {
	return namesOption{kind: allowlist.SwitchingMethods, names: names}
}

// WithRequiringPrefixes is an [Option] adding package path prefixes whose
// interfaces must only be used on the main thread.
func WithRequiringPrefixes(prefixes ...string) Option {
	return namesOption{kind: allowlist.TypesRequiringMainThread, names: prefixes}
}

type namesOption struct {
	kind  allowlist.Kind
	names []string
}

func (o namesOption) apply(r *runOptions) {
	switch o.kind {
	case allowlist.AssertingMethods:
		r.asserting = append(r.asserting, o.names...)
	case allowlist.SwitchingMethods:
		r.switching = append(r.switching, o.names...)
	case allowlist.TypesRequiringMainThread:
		r.requiring = append(r.requiring, o.names...)
	}
}

func (o namesOption) LogAttr() slog.Attr { return slog.Any(o.kind.String(), o.names) }

// WithShellPackage is an [Option] overriding the path of the shell package
// whose Package.GetService and ServiceProvider require the main thread.
func WithShellPackage(path string) Option { return shellPackageOption{path: path} }

type shellPackageOption struct{ path string }

func (o shellPackageOption) apply(r *runOptions) { r.shellPackage = o.path }

func (o shellPackageOption) LogAttr() slog.Attr { return slog.String("shell-package", o.path) }

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *runOptions) { r.generated = o.generated }

func (o generatedOption) LogAttr() slog.Attr { return slog.Bool("generated", o.generated) }

// WithWorkers is an [Option] limiting how many functions of one package are
// analyzed concurrently. Values below one select GOMAXPROCS.
func WithWorkers(n int) Option { return workersOption{n: n} }

type workersOption struct{ n int }

func (o workersOption) apply(r *runOptions) { r.workers = o.n }

func (o workersOption) LogAttr() slog.Attr { return slog.Int("workers", o.n) }

// runOptions holds the state of one analyzer instance.
type runOptions struct {
	configDir    string
	configFile   string
	asserting    stringList
	switching    stringList
	requiring    stringList
	shellPackage string
	generated    bool
	workers      int

	// config is evaluated on the first pass, after flags are parsed.
	config func() (*affinity.Config, error)
}

func defaultOptions() *runOptions {
	r := &runOptions{
		generated: true,
		workers:   runtime.GOMAXPROCS(0),
	}
	r.config = sync.OnceValues(r.loadConfig)
	return r
}

// loadConfig merges the allow-list directory, the YAML file and the names
// given as options or flags.
func (r *runOptions) loadConfig() (*affinity.Config, error) {
	var lists allowlist.Lists
	if r.configDir != "" {
		fromDir, err := allowlist.FromDir(r.configDir)
		if err != nil {
			return nil, err
		}
		lists = lists.Merge(fromDir)
	}

	fromFile, err := allowlist.LoadYAML(r.configFile)
	if err != nil {
		return nil, err
	}
	lists = lists.Merge(fromFile).Merge(allowlist.Lists{
		AssertingMethods:         r.asserting,
		SwitchingMethods:         r.switching,
		TypesRequiringMainThread: r.requiring,
		ShellPackage:             r.shellPackage,
	})

	slog.Debug("loaded main-thread configuration",
		"asserting", len(lists.AssertingMethods),
		"switching", len(lists.SwitchingMethods),
		"requiring", len(lists.TypesRequiringMainThread),
		"shell_package", lists.ShellPackage)
	return lists.Config(), nil
}

func (r *runOptions) workerLimit() int {
	if r.workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return r.workers
}
