// Package main installs the tools used by scripts/fmt and scripts/lint.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

type tool struct {
	name string
	path string
}

var tools = []tool{
	{"gofumpt", "mvdan.cc/gofumpt@v0.7.0"},
	{"golangci-lint", "github.com/golangci/golangci-lint/v2/cmd/golangci-lint@v2.9.0"},
}

func main() {
	failed := false
	for _, t := range tools {
		if isToolInstalled(t.name) {
			_, _ = fmt.Printf("✅ %s is already installed\n", t.name)
			continue
		}
		_, _ = fmt.Printf("📦 Installing %s...\n", t.name)
		cmd := exec.Command("go", "install", t.path)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			_, _ = fmt.Printf("❌ Failed to install %s: %v\n", t.name, err)
			failed = true
			continue
		}
		_, _ = fmt.Printf("✅ Installed %s\n", t.name)
	}
	if failed {
		os.Exit(1)
	}
}

// isToolInstalled looks on PATH and in GOPATH/bin, where go install puts binaries.
func isToolInstalled(name string) bool {
	if _, err := exec.LookPath(name); err == nil {
		return true
	}
	goPath := os.Getenv("GOPATH")
	if goPath == "" {
		home, _ := os.UserHomeDir()
		goPath = filepath.Join(home, "go")
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	_, err := os.Stat(filepath.Join(goPath, "bin", name))
	return err == nil
}
