// Command mainthreadvet runs the mainthread analyzer as a standalone checker
// or as a vet tool:
//
//	go vet -vettool=$(which mainthreadvet) -config-dir=.mainthread ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/715d/mainthread/pkg/mainthread"
)

func main() { singlechecker.Main(mainthread.Analyzer) }
