// Package main provides the entry point for the jsonshape CLI.
package main

import (
	"fmt"
	"os"

	"github.com/usestring/jsonshape-mcp/cmd/jsonshape/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
