// Command petsy plays, serves and tests the Petsy memory game.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/petsy/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
