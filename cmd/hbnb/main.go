// Package main provides the hbnb console.
package main

import (
	"os"

	"github.com/mesh-intelligence/hbnb/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
