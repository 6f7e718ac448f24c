// Package pack builds distributable archives from a product's packaging steps.
package pack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"

	"github.com/pdfedit/wintools/internal/config"
	"github.com/pdfedit/wintools/internal/fsh"
	"github.com/pdfedit/wintools/internal/repo"
	"github.com/pdfedit/wintools/internal/subst"
)

// DefaultVersion is used for $version when the start directory is not a git checkout.
const DefaultVersion = "dev"

// Request names the product to package and the archive to write.
type Request struct {
	Product  string
	Output   string
	Platform string
	// StartDir overrides the config directory as $start_dir.
	StartDir string
	// BinDir overrides the configured binDir.
	BinDir string
	DryRun bool
	// KeepStaging leaves directories created by clean steps in place.
	KeepStaging bool
}

// StepResult records what one step did, or would do in a dry run.
type StepResult struct {
	Action  config.Action
	Target  string
	Files   []string
	Skipped bool
}

// Result is the outcome of Package. StagingDir is the first cleaned directory.
type Result struct {
	Product    string
	Platform   string
	Output     string
	StagingDir string
	DryRun     bool
	Vars       subst.Vars
	Steps      []StepResult
	// Files lists the archived files, relative to the archived directory.
	Files []string
}

// Packager runs the packaging steps of the configured products.
type Packager struct {
	cfg      *config.Config
	archiver Archiver
	runner   CommandRunner
	gitter   repo.Gitter
	paths    fsh.PathResolver
	logger   *slog.Logger
}

// NewPackager returns a Packager that writes archives with archiver and runs exec
// steps with runner. gitter supplies $version.
func NewPackager(cfg *config.Config, archiver Archiver, runner CommandRunner, gitter repo.Gitter, logger *slog.Logger) *Packager {
	return &Packager{
		cfg:      cfg,
		archiver: archiver,
		runner:   runner,
		gitter:   gitter,
		paths:    fsh.NewPathResolver(),
		logger:   logger.With("component", "pack"),
	}
}

// NewArchiver returns the Archiver selected by the config's archiver setting.
func NewArchiver(cfg *config.Config, runner CommandRunner) Archiver {
	if cfg.Archiver == config.ArchiverSevenZip {
		return NewSevenZipArchiver(cfg.SevenZipPath, runner)
	}
	return NewZipArchiver()
}

// plan is a step with every field substituted and every path made absolute.
type plan struct {
	config.Step
	index int
	// toDir is set when the copy destination was written with a trailing separator.
	toDir bool
}

type runState struct {
	dirs    map[string]bool
	cleaned []string
	archive bool
}

// Package runs the steps of req.Product in order. It stops at the first failing step
// and returns the results gathered so far along with the error.
func (p *Packager) Package(ctx context.Context, req Request) (*Result, error) {
	product, err := p.cfg.Product(req.Product)
	if err != nil {
		return nil, err
	}

	platform := req.Platform
	if platform == "" {
		platform = p.cfg.Platforms[0]
	}
	if !p.cfg.SupportsPlatform(platform) {
		return nil, &UnsupportedPlatformError{Platform: platform, Supported: p.cfg.Platforms}
	}
	if req.Output == "" {
		return nil, errors.New("no output archive given")
	}

	vars, err := p.variables(ctx, req, product, platform)
	if err != nil {
		return nil, err
	}
	startDir := vars["start_dir"]

	res := &Result{
		Product:  req.Product,
		Platform: platform,
		Output:   vars["output"],
		DryRun:   req.DryRun,
		Vars:     vars,
	}
	st := &runState{dirs: map[string]bool{}}

	for i, step := range product.Steps {
		if err = ctx.Err(); err != nil {
			return res, err
		}
		pl, err := resolveStep(i, step, vars, startDir)
		if err != nil {
			return res, err
		}
		p.logger.Debug("Running step", "product", req.Product, "index", i+1, "action", pl.Action, "dryRun", req.DryRun)

		sr, err := p.execute(ctx, pl, startDir, req.DryRun, st)
		if err != nil {
			return res, err
		}
		res.Steps = append(res.Steps, sr)
		if pl.Action == config.ActionArchive {
			res.Files = append(res.Files, sr.Files...)
		}
	}

	if len(st.cleaned) > 0 {
		res.StagingDir = st.cleaned[0]
	}
	if !req.DryRun && !req.KeepStaging && st.archive {
		p.removeStaging(st.cleaned, res.Output)
	}
	return res, nil
}

func (p *Packager) variables(ctx context.Context, req Request, product *config.Product, platform string) (subst.Vars, error) {
	output, err := p.paths.Abs(fsh.NativePath(req.Output))
	if err != nil {
		return nil, err
	}

	startDir := p.cfg.Dir
	if req.StartDir != "" {
		if startDir, err = p.paths.Abs(fsh.NativePath(req.StartDir)); err != nil {
			return nil, err
		}
	}

	binDir := p.cfg.BinDir
	if req.BinDir != "" {
		binDir = req.BinDir
	}

	return subst.Merge(p.cfg.Vars, product.Vars, subst.Vars{
		"output":    output,
		"platform":  platform,
		"product":   req.Product,
		"start_dir": startDir,
		"bin_dir":   fsh.ResolveAgainst(startDir, binDir),
		"version":   p.version(ctx, startDir),
	}), nil
}

func (p *Packager) version(ctx context.Context, dir string) string {
	if p.gitter == nil {
		return DefaultVersion
	}
	v, err := p.gitter.Describe(ctx, dir)
	if err != nil || v == "" {
		p.logger.Debug("No git version available", "dir", dir, "error", err)
		return DefaultVersion
	}
	return v
}

func resolveStep(i int, step config.Step, vars subst.Vars, startDir string) (plan, error) {
	pl := plan{Step: step, index: i}
	var firstErr error

	resolve := func(field, s string) string {
		if s == "" || firstErr != nil {
			return s
		}
		out, names, err := subst.Substitute(s, vars)
		if err != nil {
			firstErr = fmt.Errorf("step %d: %s: %w", i+1, field, err)
			return s
		}
		if len(names) > 0 {
			firstErr = &UnresolvedVariableError{Step: i, Field: field, Value: s, Names: names}
		}
		return out
	}
	resolvePath := func(field, s string) string {
		out := resolve(field, s)
		if out == "" {
			return out
		}
		return fsh.ResolveAgainst(startDir, out)
	}

	to := resolve("to", step.To)
	pl.toDir = strings.HasSuffix(to, "/") || strings.HasSuffix(to, `\`)
	if to != "" {
		pl.To = fsh.ResolveAgainst(startDir, to)
	}
	pl.Path = resolvePath("path", step.Path)
	pl.From = resolvePath("from", step.From)
	pl.Source = resolvePath("source", step.Source)
	pl.Output = resolvePath("output", step.Output)
	pl.Dir = resolvePath("dir", step.Dir)

	if step.Exclude != nil {
		pl.Exclude = make([]string, 0, len(step.Exclude))
	}
	for _, e := range step.Exclude {
		pl.Exclude = append(pl.Exclude, resolve("exclude", e))
	}
	pl.Command = nil
	for _, c := range step.Command {
		pl.Command = append(pl.Command, resolve("command", c))
	}

	return pl, firstErr
}

func (p *Packager) execute(ctx context.Context, pl plan, startDir string, dryRun bool, st *runState) (StepResult, error) {
	switch pl.Action {
	case config.ActionClean:
		return p.clean(pl, startDir, dryRun, st)
	case config.ActionMkdir:
		st.dirs[pl.Path] = true
		if !dryRun {
			if err := os.MkdirAll(pl.Path, 0o755); err != nil {
				return StepResult{}, fmt.Errorf("step %d: %w", pl.index+1, err)
			}
		}
		return StepResult{Action: pl.Action, Target: pl.Path}, nil
	case config.ActionCopy:
		return p.copyArtifacts(pl, dryRun, st)
	case config.ActionArchive:
		return p.archive(ctx, pl, dryRun, st)
	case config.ActionExec:
		return p.exec(ctx, pl, startDir, dryRun)
	default:
		return StepResult{}, &config.InvalidPropertyError{
			Property: fmt.Sprintf("steps[%d].action", pl.index),
			Value:    string(pl.Action),
			Reason:   "unknown action",
		}
	}
}

func (p *Packager) clean(pl plan, startDir string, dryRun bool, st *runState) (StepResult, error) {
	if within(p.canonical(startDir), p.canonical(pl.Path)) {
		return StepResult{}, fmt.Errorf("step %d: refusing to clean %s: it contains the start directory %s",
			pl.index+1, pl.Path, startDir)
	}
	st.dirs[pl.Path] = true
	st.cleaned = append(st.cleaned, pl.Path)
	if !dryRun {
		if err := os.RemoveAll(pl.Path); err != nil {
			return StepResult{}, fmt.Errorf("step %d: %w", pl.index+1, err)
		}
		if err := os.MkdirAll(pl.Path, 0o755); err != nil {
			return StepResult{}, fmt.Errorf("step %d: %w", pl.index+1, err)
		}
	}
	return StepResult{Action: pl.Action, Target: pl.Path}, nil
}

func (p *Packager) copyArtifacts(pl plan, dryRun bool, st *runState) (StepResult, error) {
	sr := StepResult{Action: pl.Action, Target: pl.To}

	matches, err := matchArtifacts(pl.From)
	if err != nil {
		return sr, fmt.Errorf("step %d: %w", pl.index+1, err)
	}
	if len(matches) == 0 {
		if pl.Optional {
			p.logger.Debug("Optional artifact not found", "pattern", pl.From)
			sr.Skipped = true
			return sr, nil
		}
		return sr, &MissingArtifactError{Step: pl.index, Pattern: pl.From}
	}

	toDir := pl.toDir || st.dirs[pl.To] || isDir(pl.To)
	if !toDir && len(matches) > 1 {
		return sr, &CopyTargetError{Step: pl.index, Pattern: pl.From, Target: pl.To, Matches: len(matches)}
	}

	for _, m := range matches {
		dest := pl.To
		if toDir {
			dest = filepath.Join(pl.To, filepath.Base(m))
		}
		if !dryRun {
			if err := copy.Copy(m, dest, copy.Options{PreserveTimes: true}); err != nil {
				return sr, fmt.Errorf("step %d: cannot copy %s to %s: %w", pl.index+1, m, dest, err)
			}
		}
		sr.Files = append(sr.Files, dest)
	}
	return sr, nil
}

func (p *Packager) archive(ctx context.Context, pl plan, dryRun bool, st *runState) (StepResult, error) {
	sr := StepResult{Action: pl.Action, Target: pl.Output}
	exclude := pl.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	if !isDir(pl.Source) {
		if dryRun && st.dirs[pl.Source] {
			return sr, nil
		}
		return sr, &MissingArtifactError{Step: pl.index, Pattern: pl.Source}
	}

	if dryRun {
		entries, err := collect(ctx, pl.Source, pl.Output, exclude)
		if err != nil {
			return sr, err
		}
		sr.Files = fileNames(entries)
		return sr, nil
	}

	files, err := p.archiver.Archive(ctx, pl.Source, pl.Output, exclude)
	if err != nil {
		return sr, fmt.Errorf("step %d: cannot archive %s: %w", pl.index+1, pl.Source, err)
	}
	p.logger.Debug("Archive written", "output", pl.Output, "files", len(files))
	st.archive = true
	sr.Files = files
	return sr, nil
}

func (p *Packager) exec(ctx context.Context, pl plan, startDir string, dryRun bool) (StepResult, error) {
	sr := StepResult{Action: pl.Action, Target: strings.Join(pl.Command, " ")}
	if dryRun {
		return sr, nil
	}
	dir := pl.Dir
	if dir == "" {
		dir = startDir
	}
	out, err := p.runner.Run(ctx, dir, pl.Command[0], pl.Command[1:]...)
	if err != nil {
		return sr, &ExecError{Command: pl.Command, Output: string(out), Wrapped: err}
	}
	p.logger.Debug("Command finished", "command", sr.Target, "output", strings.TrimSpace(string(out)))
	return sr, nil
}

func (p *Packager) removeStaging(dirs []string, output string) {
	for _, d := range dirs {
		if within(p.canonical(output), p.canonical(d)) {
			continue
		}
		if err := os.RemoveAll(d); err != nil {
			p.logger.Warn("Cannot remove staging directory", "dir", d, "error", err)
		}
	}
}

// matchArtifacts expands a glob, or checks a plain path exists.
func matchArtifacts(pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		if _, err := os.Stat(pattern); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		return []string{pattern}, nil
	}
	return filepath.Glob(pattern)
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, `*?[`)
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// canonical resolves symlinks in the longest existing prefix of path and joins
// the missing remainder back on. Unresolvable paths are returned unchanged.
func (p *Packager) canonical(path string) string {
	dir, rest := filepath.Clean(path), ""
	for {
		if c, err := p.paths.CanonicalPath(dir); err == nil {
			return filepath.Join(c, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
