// Command gridsplit splits an image into a grid of numbered JPEG tiles.
package main

import (
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/cli"
)

// Injected with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
