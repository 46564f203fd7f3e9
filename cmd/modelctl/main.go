package main

import (
	"os"

	"aimarket/cmd/modelctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
