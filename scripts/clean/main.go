// Package main removes build, test and packaging artefacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	cleanDirs([]string{"bin", "dist"})
	cleanPatterns([]string{
		"**/.wintools.log",
		"**/*.sln.test.sln",
		"**/*.sln.bckp",
		"coverage*", "*.out", "*.test",
	})
}

func cleanDirs(dirs []string) {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			_, _ = fmt.Printf("❌ Failed to remove dir %s: %v\n", dir, err)
		} else {
			_, _ = fmt.Printf("✅ Removed dir %s\n", dir)
		}
	}
}

// cleanPatterns removes files matching patterns. A leading "**/" matches the
// pattern in the working directory and in every directory below it.
func cleanPatterns(patterns []string) {
	for _, pattern := range patterns {
		for _, match := range glob(pattern) {
			if err := os.Remove(match); err != nil {
				_, _ = fmt.Printf("❌ Failed to remove %s: %v\n", match, err)
			} else {
				_, _ = fmt.Printf("✅ Removed %s\n", match)
			}
		}
	}
}

func glob(pattern string) []string {
	rest, recursive := strings.CutPrefix(pattern, "**/")
	if !recursive {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			_, _ = fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
		}
		return matches
	}

	var matches []string
	_ = filepath.WalkDir(".", func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			// Skip the directories the go tool ignores as well.
			if p != "." && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(rest, d.Name()); ok {
			matches = append(matches, p)
		}
		return nil
	})
	return matches
}

