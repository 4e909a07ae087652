// Command ascellbench drives a Stack under configurable concurrent
// producers and consumers and reports whether every pushed value was
// accounted for on the way back out.
package main

import (
	"fmt"
	"os"

	"github.com/go-ascell/ascell/cmd/ascellbench/internal/bench"
)

func main() {
	if err := bench.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
