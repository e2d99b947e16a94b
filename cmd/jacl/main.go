// Package main is the entry point of the jacl command.
package main

import (
	"os"

	"github.com/leapstack-labs/jacl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
