package fsh

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// PathResolver provides path resolution operations.
type PathResolver interface {
	// CanonicalPath returns the canonical, absolute path by resolving symlinks.
	CanonicalPath(path string) (string, error)
	// Abs returns the absolute path.
	Abs(path string) (string, error)
}

// StandardPathResolver is the default implementation using standard library functions.
type StandardPathResolver struct{}

// NewPathResolver creates a new StandardPathResolver.
func NewPathResolver() *StandardPathResolver {
	return &StandardPathResolver{}
}

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
func (r *StandardPathResolver) CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// Abs returns the absolute path.
func (r *StandardPathResolver) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// NativePath converts a path written with either separator into one using the
// separator of the host OS. Config files for this project are usually written
// with Windows backslashes.
func NativePath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

// WindowsPath converts a path to use backslashes, as Visual Studio files expect.
func WindowsPath(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), "/", `\`)
}

// ResolveAgainst returns p unchanged if it is absolute, otherwise joined onto base.
// p is converted with NativePath first.
func ResolveAgainst(base, p string) string {
	p = NativePath(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// ListFiles returns the names of regular files in dir whose name ends with suffix,
// sorted lexically. Subdirectories are ignored. A missing directory yields an
// empty list.
func ListFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), suffix) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
