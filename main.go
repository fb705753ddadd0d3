package main

import (
	"os"

	"github.com/gregLibert/scprobe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
