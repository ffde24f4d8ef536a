// Command lcacost compares lifecycle impacts and costs of building materials.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/lcacost/internal/cli"
	"github.com/rshade/lcacost/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(context.Background())
}

// extractExitCode maps an error from run to the process exit code.
func extractExitCode(err error) int {
	return cli.ExitCodeFor(err)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(extractExitCode(err))
	}
}
