// Package main is the entry point of the isw2 dataset builder.
package main

import (
	"github.com/kuro1999/isw2-dataset/cmd"
	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/internal/iocache"
)

// main starts the command tree and releases the cache stores on exit.
func main() {
	defer iocache.CloseCaching()

	if err := cmd.Execute(); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("Command failed", err)
	}
}
