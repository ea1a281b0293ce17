package main

import (
	"os"

	"fmdgen/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own errors through the formatter; the
		// error here only carries the exit code.
		os.Exit(cli.GetExitCode(err))
	}
}
