package main

import (
	"os"

	"github.com/bedfast/access-service/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
