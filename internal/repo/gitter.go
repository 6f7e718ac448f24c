// Package repo wraps the git operations wintools needs.
package repo

import "context"

// Gitter defines the interface for git repository operations.
type Gitter interface {
	// Describe returns a human readable name for the revision checked out in dir,
	// derived from the nearest tag.
	Describe(ctx context.Context, dir string) (string, error)
}
