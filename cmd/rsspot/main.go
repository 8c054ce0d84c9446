package main

import (
	"os"

	"github.com/rackerlabs/rsspot/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
