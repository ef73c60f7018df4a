package main

import (
	"os"

	"github.com/rashadism/choreosync/cmd/choreosync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
