package main

import (
	"os"

	"github.com/yndnr/nftsnap/internal/cli/command"
)

func main() {
	os.Exit(command.Run(os.Args))
}
