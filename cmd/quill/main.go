// Package main is the quill binary entry point.
package main

import (
	"os"

	"github.com/quillhq/quill/pkg/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
