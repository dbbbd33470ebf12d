package main

import (
	"os"

	"github.com/hkeating27/Red-Crafter/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
