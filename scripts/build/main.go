// Package main builds bin/wintools with the git revision as its version.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pdfedit/wintools/internal/pack"
	"github.com/pdfedit/wintools/internal/repo"
)

func main() {
	ctx := context.Background()

	binaryName := "wintools"
	goos := os.Getenv("GOOS")
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos == "windows" {
		binaryName += ".exe"
	}

	version, err := repo.NewCLIGitter().Describe(ctx, ".")
	if err != nil {
		version = pack.DefaultVersion
	}

	ldflags := fmt.Sprintf("-X github.com/pdfedit/wintools/internal/app.Version=%s", version)

	if err = os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s for %s...\n", version, goos)

	cmd := exec.CommandContext(ctx, "go", "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/wintools")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err = cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}
