// seaguard is the command-line interface for SeaGuard-Intelligence.
package main

import (
	"os"

	"github.com/turtacn/SeaGuard-Intelligence/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
