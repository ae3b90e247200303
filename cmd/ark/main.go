// Package main is the entry point for the ark CLI and web server.
package main

import (
	"fmt"
	"os"

	"github.com/arkproperty/ark/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
