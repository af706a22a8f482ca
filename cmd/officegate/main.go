package main

import (
	"os"

	"github.com/rvandam/office-gate/cmd/officegate/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
