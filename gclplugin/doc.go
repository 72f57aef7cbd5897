/*
Package gclplugin provides golangci-lint plugin integration for the [mainthread] analyzer.

# Usage

1. Add a file `.custom-gcl.yaml` to your source with:

	---
	version: v2.7.0

	name: golangci-lint
	destination: .

	plugins:
	  - module: github.com/715d/mainthread
	    import: github.com/715d/mainthread/gclplugin
	    version: v0.1.0

2. Run `golangci-lint custom` from your project root.

3. Configure the linter in `.golangci.yaml`:

	---
	version: "2"
	linters:
	  default: none
	  enable:
	    - mainthread
	  settings:
	    custom:
	      mainthread:
	        type: module
	        description: "mainthread reports main-thread-affine types used off the main thread."
	        settings:
	          config-dir: .mainthread
	          asserting-methods: [ThrowIfNotOnUIThread]
	          switching-methods: [SwitchToMainThread]
	          requiring-prefixes: [microsoft.com/visualstudio/interop]

4. Run the linter:

	./golangci-lint run .

[mainthread]: https://pkg.go.dev/github.com/715d/mainthread/pkg/mainthread
*/
package gclplugin
