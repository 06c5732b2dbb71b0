// Package main provides the entry point for the jscan Java runtime scanner CLI.
package main

import (
	"os"

	"github.com/jscan-dev/jscan/pkg/jscan/logging"
)

func main() {
	err := Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}
