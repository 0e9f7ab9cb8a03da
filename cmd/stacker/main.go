package main

import (
	"os"

	"github.com/wonny/stacker/cmd/stacker/commands"
)

// main is the entry point for the Stacker CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/stacker [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
