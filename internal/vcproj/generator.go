// Package vcproj creates Visual Studio 2008 project files for tool sources.
package vcproj

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdfedit/wintools/internal/config"
	"github.com/pdfedit/wintools/internal/fsh"
)

// Outcome describes what happened to one tool source.
type Outcome struct {
	Name    string
	Source  string
	Path    string
	GUID    string
	Created bool
}

// Result lists the outcome for every tool source found by Generate.
type Result struct {
	ToolsDir  string
	OutputDir string
	DryRun    bool
	Projects  []Outcome
}

// Created returns the outcomes of projects written by this run.
func (r *Result) Created() []Outcome {
	var out []Outcome
	for _, o := range r.Projects {
		if o.Created {
			out = append(out, o)
		}
	}
	return out
}

// Generator creates Visual Studio 2008 projects for tool sources.
type Generator struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewGenerator returns a Generator for cfg's vcproj settings.
func NewGenerator(cfg *config.Config, logger *slog.Logger) *Generator {
	return &Generator{cfg: cfg, logger: logger.With("component", "vcproj")}
}

// ToolsDir is the absolute directory scanned for tool sources.
func (g *Generator) ToolsDir() string {
	return g.cfg.Resolve(g.cfg.Vcproj.ToolsDir)
}

// OutputDir is the absolute directory project files are written to.
func (g *Generator) OutputDir() string {
	return g.cfg.Resolve(g.cfg.Vcproj.OutputDir)
}

// Generate writes a project for every tool source without one. Existing
// project files are never modified.
func (g *Generator) Generate(ctx context.Context, dryRun bool) (*Result, error) {
	vc := g.cfg.Vcproj
	toolsDir, outDir := g.ToolsDir(), g.OutputDir()
	res := &Result{ToolsDir: toolsDir, OutputDir: outDir, DryRun: dryRun}

	if fi, err := os.Stat(toolsDir); err != nil || !fi.IsDir() {
		return nil, &MissingSourceDirError{Path: toolsDir}
	}
	sources, err := fsh.ListFiles(toolsDir, vc.SourceExt)
	if err != nil {
		return nil, err
	}

	existing, err := ScanDir(ctx, outDir)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", outDir, err)
	}
	byPath := make(map[string]*Project, len(existing))
	for _, p := range existing {
		byPath[p.Path] = p
	}

	alloc, err := NewAllocator(vc.GUIDMode, vc.SeedGUID, KnownGUIDs(existing))
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Scanned projects", "dir", outDir, "projects", len(existing))

	for _, src := range sources {
		if excluded(src, vc.Exclude) {
			continue
		}
		if err = ctx.Err(); err != nil {
			return res, err
		}

		name := strings.TrimSuffix(src, vc.SourceExt)
		o := Outcome{
			Name:   name,
			Source: filepath.Join(toolsDir, src),
			Path:   filepath.Join(outDir, name+Ext),
		}

		if _, err = os.Stat(o.Path); err == nil {
			if p, ok := byPath[o.Path]; ok {
				o.GUID = p.GUID
			}
			res.Projects = append(res.Projects, o)
			continue
		}

		if o.GUID, err = alloc.Next(); err != nil {
			return res, err
		}
		created, err := g.write(o, outDir, dryRun)
		if err != nil {
			return res, err
		}
		o.Created = created
		if created {
			g.logger.Debug("Created project", "name", name, "guid", o.GUID, "dryRun", dryRun)
		}
		res.Projects = append(res.Projects, o)
	}
	return res, nil
}

func (g *Generator) write(o Outcome, outDir string, dryRun bool) (bool, error) {
	rel, err := filepath.Rel(outDir, o.Source)
	if err != nil {
		rel = o.Source
	}
	content, err := Render(&Project{Name: o.Name, GUID: o.GUID}, []string{fsh.WindowsPath(rel)}, g.cfg.Vcproj.VSVersion)
	if err != nil {
		return false, err
	}
	if dryRun {
		return true, nil
	}

	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(o.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	if _, err = f.Write(content); err != nil {
		_ = f.Close()
		return false, err
	}
	return true, f.Close()
}

// excluded matches a source file name against the exclude list, which may hold
// plain names or globs.
func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok || p == name {
			return true
		}
	}
	return false
}
