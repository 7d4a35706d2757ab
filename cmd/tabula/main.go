// Package main provides the tabula CLI.
package main

import "github.com/mesh-intelligence/tabula/internal/cli"

func main() {
	cli.Execute()
}
