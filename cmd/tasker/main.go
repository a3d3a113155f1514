// Command tasker is the command-line client for the traffic-light task list.
package main

import (
	"os"

	"github.com/phrazzld/traffic-tasker/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
