package main

import (
	"os"

	"github.com/cuckoo-ai/cuckoo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
