package sln

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/otiai10/copy"

	"github.com/pdfedit/wintools/internal/config"
	"github.com/pdfedit/wintools/internal/vcproj"
)

// BackupExt is appended to the solution path for the copy taken before writing.
const BackupExt = ".bckp"

// UpdateOptions selects where Update writes the merged solution.
type UpdateOptions struct {
	// Output overrides where the updated solution is written.
	Output string
	// InPlace overwrites the solution itself.
	InPlace bool
	DryRun  bool
}

// UpdateResult describes one Update run. Backup is empty for dry runs.
type UpdateResult struct {
	Solution string
	Output   string
	Backup   string
	DryRun   bool
	Present  []string
	Added    []Addition
	// Skipped lists project files lacking a name or GUID.
	Skipped []string
}

// Updater adds the projects of the configured vcproj directory to the
// configured solution.
type Updater struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewUpdater returns an Updater for cfg's solution settings.
func NewUpdater(cfg *config.Config, logger *slog.Logger) *Updater {
	return &Updater{cfg: cfg, logger: logger.With("component", "sln")}
}

// Update lists every project of the configured vcproj directory in the
// solution. Unless this is a dry run the original is first copied to
// <solution>.bckp. An existing backup is kept, so it always holds the solution
// as it was before the first update.
func (u *Updater) Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	res := &UpdateResult{Solution: u.cfg.SolutionPath(), DryRun: opts.DryRun}
	switch {
	case opts.InPlace:
		res.Output = res.Solution
	case opts.Output != "":
		out, err := filepath.Abs(opts.Output)
		if err != nil {
			return nil, err
		}
		res.Output = out
	default:
		res.Output = u.cfg.SolutionOutput()
	}

	projects, err := u.projects(ctx, res)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(res.Solution)
	if err != nil {
		return nil, fmt.Errorf("cannot open solution: %w", err)
	}
	s, err := Parse(f)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", res.Solution, err)
	}

	merged, err := Merge(s, projects, u.cfg.Solution.ProjectDir)
	if err != nil {
		return nil, err
	}
	res.Present = merged.Present
	res.Added = merged.Added
	u.logger.Debug("Merged solution", "present", len(res.Present), "added", len(res.Added))

	if opts.DryRun {
		return res, nil
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	res.Backup = res.Solution + BackupExt
	if _, err = os.Stat(res.Backup); errors.Is(err, os.ErrNotExist) {
		if err = copy.Copy(res.Solution, res.Backup); err != nil {
			return nil, fmt.Errorf("cannot back up solution: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("cannot back up solution: %w", err)
	} else {
		u.logger.Debug("Keeping existing backup", "path", res.Backup)
	}
	if err = writeAtomic(res.Output, s, fileMode(res.Output, res.Solution)); err != nil {
		return nil, fmt.Errorf("cannot write %s: %w", res.Output, err)
	}
	return res, nil
}

func (u *Updater) projects(ctx context.Context, res *UpdateResult) (map[string]string, error) {
	dir := u.cfg.Resolve(u.cfg.Solution.VcprojDir)
	scanned, err := vcproj.ScanDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", dir, err)
	}

	byName := map[string]string{}
	paths := map[string][]string{}
	for _, p := range scanned {
		if p.Name == "" || p.GUID == "" {
			u.logger.Warn("Skipping project without name or GUID", "path", p.Path)
			res.Skipped = append(res.Skipped, p.Path)
			continue
		}
		byName[p.Name] = p.GUID
		paths[p.Name] = append(paths[p.Name], p.Path)
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if len(paths[name]) > 1 {
			return nil, &DuplicateProjectError{Project: name, Paths: paths[name]}
		}
	}
	return byName, nil
}

// fileMode returns the permissions of the first existing path, or 0644.
func fileMode(paths ...string) os.FileMode {
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil {
			return fi.Mode().Perm()
		}
	}
	return 0o644
}

// writeAtomic replaces path with the solution by renaming a temporary file
// written next to it with the given permissions.
func writeAtomic(path string, s *Solution, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".wintools-*.sln")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = s.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
