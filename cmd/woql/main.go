// Command woql builds, validates and executes WOQL queries.
package main

import (
	"os"

	"github.com/roach88/woql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
