package main

import (
	"os"

	"voice-of-kalki/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
