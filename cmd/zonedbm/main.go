// Command zonedbm evaluates clock zones declared in CUE.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/zonedbm/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zonedbm:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
