// Package main provides the mala CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/mala/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
