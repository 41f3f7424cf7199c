package main

import (
	"os"

	"otrbridge/cmd/otrbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
