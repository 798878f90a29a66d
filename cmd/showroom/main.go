// Package main is the entry point for the showroom CLI.
package main

import (
	"os"

	"github.com/pigeonworks-llc/showroom-ledger/cmd/showroom/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
