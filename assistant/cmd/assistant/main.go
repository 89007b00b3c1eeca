package main

import (
	"os"

	"github.com/malbeclabs/sitewise-assistant/assistant/internal/cli"
)

var (
	// Set by LDFLAGS
	version = "dev"
)

func main() {
	os.Exit(int(cli.Run(version)))
}
