package main

import (
	"os"

	"github.com/brandsignal/foresight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
