// Package main is the entry point for the agora CLI.
package main

import (
	"os"

	"github.com/agorahq/agora/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
