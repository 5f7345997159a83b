// Package main provides the bookrec command line: import a catalog export and
// query it for recommendations without running the server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
