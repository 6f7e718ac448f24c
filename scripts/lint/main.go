// Package main runs golangci-lint over the module with its default linters.
package main

import (
	"fmt"
	"os"
	"os/exec"
)

func main() {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println("golangci-lint not found. Install it with 'go run ./scripts/setup'")
		os.Exit(1)
	}

	fmt.Println("Linting with golangci-lint...")
	// ./... skips the testdata and underscore directories.
	cmd := exec.Command("golangci-lint", "run", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Linting failed: %v\n", err)
		os.Exit(1)
	}
}
