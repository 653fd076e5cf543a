// Package main is the entry point for the listfix CLI.
package main

import (
	"os"

	"github.com/dpotapov/go-listfix/cmd/listfix/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
