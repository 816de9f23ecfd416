package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := NewRootCommand(version, commit, date).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Something went wrong while reading or writing files: %v\n", err)
		os.Exit(1)
	}
}
