package main

import (
	"os"

	"github.com/mmynk/smartfinance/cmd/smartfinance/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
