package main

import (
	"os"

	"vehicles-dashboard/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
