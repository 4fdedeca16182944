package main

import (
	"os"

	"github.com/rpalvm/rpal/cmd/rpal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
