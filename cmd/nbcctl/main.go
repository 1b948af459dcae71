package main

import (
	"os"

	"github.com/Adda-Baaj/noobcash-web/cmd/nbcctl/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
