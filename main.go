package main

import (
	"os"

	"github.com/logflix/logflix/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
