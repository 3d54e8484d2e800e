package main

import (
	"os"

	"github.com/funvibe/lamb/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
