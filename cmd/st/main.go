package main

import (
	"os"

	"github.com/soiltwin/soiltwin-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
