package main

import (
	"os"

	"github.com/masmgr/commitgraph-go/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args, os.Stdout, os.Stderr))
}
