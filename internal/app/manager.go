package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfedit/wintools/internal/config"
	"github.com/pdfedit/wintools/internal/pack"
	"github.com/pdfedit/wintools/internal/report"
	"github.com/pdfedit/wintools/internal/sln"
	"github.com/pdfedit/wintools/internal/vcproj"
	"github.com/pdfedit/wintools/internal/watch"
)

// OutputOptions selects how an operation's summary is rendered.
type OutputOptions struct {
	Format    string
	Verbose   bool
	UseColour bool
}

// Manager defines the operations behind the wintools commands.
type Manager interface {
	Config() *config.Config
	Package(ctx context.Context, req pack.Request, out OutputOptions) error
	CreateVcproj(ctx context.Context, dryRun bool, out OutputOptions) error
	WatchVcproj(ctx context.Context, out OutputOptions, readyChan chan<- struct{}) error
	AddToSln(ctx context.Context, opts sln.UpdateOptions, out OutputOptions) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// PersistentPreRunE uses it to skip wiring when a manager was injected (e.g. in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Config() *config.Config {
	return l.check().Config()
}

func (l *LazyManager) Package(ctx context.Context, req pack.Request, out OutputOptions) error {
	return l.check().Package(ctx, req, out)
}

func (l *LazyManager) CreateVcproj(ctx context.Context, dryRun bool, out OutputOptions) error {
	return l.check().CreateVcproj(ctx, dryRun, out)
}

func (l *LazyManager) WatchVcproj(ctx context.Context, out OutputOptions, readyChan chan<- struct{}) error {
	return l.check().WatchVcproj(ctx, out, readyChan)
}

func (l *LazyManager) AddToSln(ctx context.Context, opts sln.UpdateOptions, out OutputOptions) error {
	return l.check().AddToSln(ctx, opts, out)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	packager       *pack.Packager
	generator      *vcproj.Generator
	updater        *sln.Updater
	reporterWriter io.Writer
	now            func() time.Time
}

func NewCLIManager(
	l *slog.Logger,
	cfg *config.Config,
	p *pack.Packager,
	g *vcproj.Generator,
	u *sln.Updater,
	w io.Writer,
) *CLIManager {
	if w == nil {
		w = os.Stdout
	}
	return &CLIManager{
		logger:         l,
		cfg:            cfg,
		packager:       p,
		generator:      g,
		updater:        u,
		reporterWriter: w,
		now:            time.Now,
	}
}

func (m *CLIManager) Config() *config.Config {
	return m.cfg
}

func (m *CLIManager) Package(ctx context.Context, req pack.Request, out OutputOptions) error {
	m.logger.Debug("packaging", "product", req.Product, "output", req.Output, "platform", req.Platform,
		"dryRun", req.DryRun, "keepStaging", req.KeepStaging)

	start := m.now()
	res, err := m.packager.Package(ctx, req)
	if err != nil {
		return err
	}

	s := report.NewSummary("package "+res.Product, start)
	s.DryRun = res.DryRun
	s.Output = res.Output
	for _, st := range res.Steps {
		s.Add(stepEntry(st, res.DryRun))
	}
	return m.write(s, out)
}

func stepEntry(st pack.StepResult, dryRun bool) report.Entry {
	e := report.Entry{Name: string(st.Action), Path: st.Target, Status: report.StatusDone}
	switch {
	case st.Skipped:
		e.Status = report.StatusSkipped
		e.Detail = "nothing to copy"
	case dryRun:
		e.Status = report.StatusPlanned
	case st.Action == config.ActionArchive:
		e.Status = report.StatusArchived
	}
	if len(st.Files) > 0 {
		e.Detail = fmt.Sprintf("%d file(s)", len(st.Files))
	}
	return e
}

func (m *CLIManager) CreateVcproj(ctx context.Context, dryRun bool, out OutputOptions) error {
	m.logger.Debug("creating projects", "toolsDir", m.generator.ToolsDir(), "dryRun", dryRun)
	return m.generate(ctx, dryRun, out)
}

func (m *CLIManager) generate(ctx context.Context, dryRun bool, out OutputOptions) error {
	start := m.now()
	res, err := m.generator.Generate(ctx, dryRun)
	if err != nil {
		return err
	}

	s := report.NewSummary("create-vcproj", start)
	s.DryRun = res.DryRun
	s.Output = res.OutputDir
	for _, o := range res.Projects {
		e := report.Entry{Name: o.Name, Path: o.Path, Detail: "GUID {" + o.GUID + "}"}
		switch {
		case !o.Created:
			e.Status = report.StatusSkipped
			e.Detail = "already exists"
		case dryRun:
			e.Status = report.StatusPlanned
		default:
			e.Status = report.StatusCreated
		}
		s.Add(e)
	}
	return m.write(s, out)
}

// WatchVcproj runs project generation once and again whenever a tool source
// appears or changes. If you want to know when the watcher is ready to start
// listening to changes, pass a non-nil readyChan to be notified.
func (m *CLIManager) WatchVcproj(ctx context.Context, out OutputOptions, readyChan chan<- struct{}) error {
	m.logger.Debug("watching tool sources", "toolsDir", m.generator.ToolsDir())

	if err := m.generate(ctx, false, out); err != nil {
		return err
	}

	watcher := watch.NewWatcher(m.generator.ToolsDir(), m.cfg.Vcproj.SourceExt, m.logger)

	callback := func(path string) {
		m.logger.Info("Source changed:", "source", filepath.Base(path))
		if err := m.generate(ctx, false, out); err != nil {
			m.logger.Error("Project generation failed", "error", err)
		}
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			select {
			case <-watcher.Ready:
				readyChan <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	return watcher.Watch(ctx, callback)
}

func (m *CLIManager) AddToSln(ctx context.Context, opts sln.UpdateOptions, out OutputOptions) error {
	m.logger.Debug("updating solution", "solution", m.cfg.SolutionPath(), "output", opts.Output,
		"inPlace", opts.InPlace, "dryRun", opts.DryRun)

	start := m.now()
	res, err := m.updater.Update(ctx, opts)
	if err != nil {
		return err
	}

	s := report.NewSummary("add-to-sln", start)
	s.DryRun = res.DryRun
	s.Output = res.Output
	for _, name := range res.Present {
		s.Add(report.Entry{Name: name, Status: report.StatusPresent})
	}
	for _, a := range res.Added {
		st := report.StatusAdded
		if res.DryRun {
			st = report.StatusPlanned
		}
		s.Add(report.Entry{Name: a.Name, Status: st, Detail: "GUID {" + a.GUID + "}"})
	}
	for _, p := range res.Skipped {
		s.Add(report.Entry{
			Name:   filepath.Base(p),
			Path:   p,
			Status: report.StatusSkipped,
			Detail: "no project name or GUID",
		})
	}
	return m.write(s, out)
}

func (m *CLIManager) write(s *report.Summary, out OutputOptions) error {
	s.EndTime = m.now()

	var reporter report.Reporter
	switch out.Format {
	case "json":
		reporter = &report.JSONReporter{}
	default:
		reporter = &report.TextReporter{Verbose: out.Verbose, UseColour: out.UseColour}
	}
	return reporter.Write(m.reporterWriter, s)
}
