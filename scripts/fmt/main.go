// Package main formats the module's Go sources with gofumpt.
package main

import (
	"fmt"
	"os"
	"os/exec"
)

// gofumpt walks every directory it is given, so the module's trees are named.
var dirs = []string{"cmd", "internal", "scripts"}

func main() {
	if _, err := exec.LookPath("gofumpt"); err != nil {
		fmt.Println("gofumpt not found. Install it with 'go run ./scripts/setup'")
		os.Exit(1)
	}

	fmt.Println("Formatting with gofumpt...")
	cmd := exec.Command("gofumpt", append([]string{"-l", "-w"}, dirs...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Formatting failed: %v\n", err)
		os.Exit(1)
	}
}
