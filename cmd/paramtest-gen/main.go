// Command paramtest-gen expands parameterized test directives into Go
// tests. Run it through go generate:
//
//	//go:generate go run paramtest-generator/cmd/paramtest-gen gen .
package main

import (
	"os"

	"paramtest-generator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
