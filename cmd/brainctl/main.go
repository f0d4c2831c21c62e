// brainctl runs operator tasks (embedding backfill, prompt seeding) against the Network Brain database.
package main

import (
	"os"

	"github.com/networkbrain/brain/internal/cli"
)

var version = "0.1.0-dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
