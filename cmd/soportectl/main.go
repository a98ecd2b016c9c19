package main

import (
	"os"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
