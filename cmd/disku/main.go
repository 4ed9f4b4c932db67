package main

import (
	"os"

	"github.com/solatis/disku/cmd/disku/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
