// Command structsort parses, sorts and re-renders structured text.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/structsort/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "structsort: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
