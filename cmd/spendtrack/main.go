package main

import (
	"os"

	"github.com/tracker-spend/spendtrack/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
