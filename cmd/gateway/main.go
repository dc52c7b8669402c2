// Package main is the entry point for the ferma-gateway server.
package main

import (
	"os"

	"github.com/ecomkassa/ferma-gateway/cmd/gateway/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
