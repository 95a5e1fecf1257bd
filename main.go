package main

import (
	"os"

	"github.com/dpshade/uberfile/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
