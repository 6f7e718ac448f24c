package repo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	// Binary is the git executable. Defaults to "git" on PATH.
	Binary string
}

// NewCLIGitter creates a new CLIGitter instance.
func NewCLIGitter() *CLIGitter {
	return &CLIGitter{Binary: "git"}
}

// Describe runs `git describe --tags --always --dirty` in dir. Without any
// tags this is the abbreviated commit hash.
func (g *CLIGitter) Describe(ctx context.Context, dir string) (string, error) {
	//nolint:gosec // arguments are fixed apart from the directory
	cmd := exec.CommandContext(ctx, g.binary(), "-C", dir, "describe", "--tags", "--always", "--dirty")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("could not describe revision in %s: %w (output: %s)",
			dir, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *CLIGitter) binary() string {
	if g.Binary == "" {
		return "git"
	}
	return g.Binary
}
