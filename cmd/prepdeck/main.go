package main

import (
	"os"

	"github.com/prepdeck/prepdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
