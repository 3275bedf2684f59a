package main

import (
	"os"

	"github.com/compozy/standup-digest/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
