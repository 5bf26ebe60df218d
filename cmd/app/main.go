package main

import (
	"os"

	"github.com/wobin1/citizen-safety-backend/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
