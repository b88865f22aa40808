// Command gridline is the CLI entry point for the tabular data engine.
package main

import "github.com/gridline-labs/gridline/internal/cli"

func main() {
	cli.Execute()
}
