package main

import (
	"os"

	"github.com/abhisek/zibao/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
