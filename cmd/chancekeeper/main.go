package main

import (
	"os"

	"github.com/solatis/chancekeeper/cmd/chancekeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
