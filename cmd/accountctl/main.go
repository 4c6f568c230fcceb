package main

import (
	"os"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
