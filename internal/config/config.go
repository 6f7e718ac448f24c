// Package config loads and validates wintools.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pdfedit/wintools/internal/fsh"
	"github.com/pdfedit/wintools/internal/validator"
)

const (
	FileName  = "wintools.yml"
	EnvConfig = "WINTOOLS_CONFIG"
)

const (
	ArchiverBuiltin  = "builtin"
	ArchiverSevenZip = "7z"

	GUIDModeSequential = "sequential"
	GUIDModeRandom     = "random"
)

// Action names a packaging step.
type Action string

const (
	ActionClean   Action = "clean"
	ActionMkdir   Action = "mkdir"
	ActionCopy    Action = "copy"
	ActionArchive Action = "archive"
	ActionExec    Action = "exec"
)

// Step is one packaging instruction. Which fields apply depends on Action.
type Step struct {
	Action   Action   `yaml:"action"`
	Path     string   `yaml:"path,omitempty"`
	From     string   `yaml:"from,omitempty"`
	To       string   `yaml:"to,omitempty"`
	Optional bool     `yaml:"optional,omitempty"`
	Source   string   `yaml:"source,omitempty"`
	Output   string   `yaml:"output,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
	Command  []string `yaml:"command,omitempty"`
	Dir      string   `yaml:"dir,omitempty"`
}

// Product is an ordered list of packaging steps, keyed by name in Config.Products.
type Product struct {
	Vars  map[string]string `yaml:"vars,omitempty"`
	Steps []Step            `yaml:"steps"`
}

type VcprojConfig struct {
	ToolsDir  string   `yaml:"toolsDir"`
	OutputDir string   `yaml:"outputDir"`
	SourceExt string   `yaml:"sourceExt"`
	Exclude   []string `yaml:"exclude"`
	VSVersion int      `yaml:"vsVersion"`
	GUIDMode  string   `yaml:"guidMode"`
	SeedGUID  string   `yaml:"seedGuid"`
}

type SolutionConfig struct {
	Path       string `yaml:"path"`
	VcprojDir  string `yaml:"vcprojDir"`
	ProjectDir string `yaml:"projectDir"`
	Output     string `yaml:"output"`
}

// Config is a loaded wintools.yml. Dir is the directory it was found in and
// the base for relative paths.
type Config struct {
	BinDir       string              `yaml:"binDir"`
	Platforms    []string            `yaml:"platforms"`
	Archiver     string              `yaml:"archiver"`
	SevenZipPath string              `yaml:"sevenZipPath"`
	Vars         map[string]string   `yaml:"vars"`
	Products     map[string]*Product `yaml:"products"`
	Vcproj       VcprojConfig        `yaml:"vcproj"`
	Solution     SolutionConfig      `yaml:"solution"`

	// Dir is the directory relative paths resolve against. It is the directory
	// holding the config file, or the working directory for built-in defaults.
	Dir string `yaml:"-"`
	// Path is the file the config was loaded from. Empty for built-in defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	var c Config
	if err := yaml.Unmarshal([]byte(DefaultConfigContent), &c); err != nil {
		panic(fmt.Sprintf("default config does not parse: %v", err))
	}
	c.Dir = dir
	return &c
}

// Loader reads config files and checks them against the embedded schema.
type Loader struct {
	schema validator.Validator
}

// NewLoader compiles the embedded configuration schema with compiler.
func NewLoader(compiler validator.Compiler) (*Loader, error) {
	v, err := CompileSchema(compiler)
	if err != nil {
		return nil, err
	}
	return &Loader{schema: v}, nil
}

// Load reads the config file at path. Values the file leaves out keep their
// defaults, except products: a file that declares products replaces the
// built-in ones entirely.
func (l *Loader) Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingConfigError{Path: abs}
		}
		return nil, fmt.Errorf("cannot read %s: %w", abs, err)
	}

	var raw any
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidYAMLError{Path: abs, Wrapped: err}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	doc, err := validator.Normalise(raw)
	if err != nil {
		return nil, &InvalidYAMLError{Path: abs, Wrapped: err}
	}
	if err = l.schema.Validate(doc); err != nil {
		return nil, &InvalidConfigError{Path: abs, Wrapped: err}
	}

	c := Default(filepath.Dir(abs))
	c.Path = abs
	if m, ok := doc.(map[string]any); ok {
		if _, ok := m["products"]; ok {
			c.Products = nil
		}
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, &InvalidYAMLError{Path: abs, Wrapped: err}
	}

	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Discover finds the config to use. In order: the explicit path given on the
// command line, the file named by WINTOOLS_CONFIG, wintools.yml in cwd, and
// finally the built-in defaults rooted at cwd.
func (l *Loader) Discover(explicit string, env fsh.EnvProvider, cwd string) (*Config, error) {
	if explicit == "" && env != nil {
		explicit = env.Get(EnvConfig)
	}
	if explicit != "" {
		return l.Load(fsh.ResolveAgainst(cwd, explicit))
	}

	local := filepath.Join(cwd, FileName)
	if _, err := os.Stat(local); err == nil {
		return l.Load(local)
	}
	return Default(cwd), nil
}

// WriteDefault writes DefaultConfigContent to dir, refusing to replace an
// existing file. It returns the path written.
func WriteDefault(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", &ConfigExistsError{Path: path}
		}
		return "", err
	}
	if _, err = f.WriteString(DefaultConfigContent); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

// Validate performs the checks the schema cannot express, and is also applied
// to configs built in code.
func (c *Config) Validate() error {
	if c.BinDir == "" {
		return &MissingPropertyError{Property: "binDir"}
	}
	if len(c.Platforms) == 0 {
		return &MissingPropertyError{Property: "platforms"}
	}
	switch c.Archiver {
	case ArchiverBuiltin:
	case ArchiverSevenZip:
		if c.SevenZipPath == "" {
			return &MissingPropertyError{Property: "sevenZipPath"}
		}
	default:
		return &InvalidPropertyError{
			Property: "archiver",
			Value:    c.Archiver,
			Reason:   fmt.Sprintf("must be %q or %q", ArchiverBuiltin, ArchiverSevenZip),
		}
	}

	for _, name := range c.ProductNames() {
		if err := c.Products[name].validate("products." + name); err != nil {
			return err
		}
	}

	if err := c.Vcproj.validate(); err != nil {
		return err
	}
	return c.Solution.validate()
}

func (p *Product) validate(prefix string) error {
	if p == nil || len(p.Steps) == 0 {
		return &MissingPropertyError{Property: prefix + ".steps"}
	}
	for i, s := range p.Steps {
		if err := s.validate(fmt.Sprintf("%s.steps[%d]", prefix, i)); err != nil {
			return err
		}
	}
	return nil
}

func (s Step) validate(prefix string) error {
	required := func(name, value string) error {
		if value == "" {
			return &MissingPropertyError{Property: prefix + "." + name}
		}
		return nil
	}

	switch s.Action {
	case ActionClean, ActionMkdir:
		return required("path", s.Path)
	case ActionCopy:
		if err := required("from", s.From); err != nil {
			return err
		}
		return required("to", s.To)
	case ActionArchive:
		if err := required("source", s.Source); err != nil {
			return err
		}
		return required("output", s.Output)
	case ActionExec:
		if len(s.Command) == 0 || s.Command[0] == "" {
			return &MissingPropertyError{Property: prefix + ".command"}
		}
		return nil
	case "":
		return &MissingPropertyError{Property: prefix + ".action"}
	default:
		return &InvalidPropertyError{
			Property: prefix + ".action",
			Value:    string(s.Action),
			Reason:   "unknown action",
		}
	}
}

func (v VcprojConfig) validate() error {
	switch {
	case v.ToolsDir == "":
		return &MissingPropertyError{Property: "vcproj.toolsDir"}
	case v.OutputDir == "":
		return &MissingPropertyError{Property: "vcproj.outputDir"}
	case v.SourceExt == "":
		return &MissingPropertyError{Property: "vcproj.sourceExt"}
	}
	if !strings.HasPrefix(v.SourceExt, ".") {
		return &InvalidPropertyError{Property: "vcproj.sourceExt", Value: v.SourceExt, Reason: "must start with '.'"}
	}
	if v.VSVersion <= 0 {
		return &InvalidPropertyError{Property: "vcproj.vsVersion", Value: fmt.Sprint(v.VSVersion), Reason: "must be positive"}
	}
	switch v.GUIDMode {
	case GUIDModeRandom:
	case GUIDModeSequential:
		if _, err := uuid.Parse(v.SeedGUID); err != nil {
			return &InvalidPropertyError{Property: "vcproj.seedGuid", Value: v.SeedGUID, Reason: err.Error()}
		}
	default:
		return &InvalidPropertyError{
			Property: "vcproj.guidMode",
			Value:    v.GUIDMode,
			Reason:   fmt.Sprintf("must be %q or %q", GUIDModeSequential, GUIDModeRandom),
		}
	}
	return nil
}

func (s SolutionConfig) validate() error {
	switch {
	case s.Path == "":
		return &MissingPropertyError{Property: "solution.path"}
	case s.VcprojDir == "":
		return &MissingPropertyError{Property: "solution.vcprojDir"}
	case s.ProjectDir == "":
		return &MissingPropertyError{Property: "solution.projectDir"}
	}
	return nil
}

// ProductNames returns the configured product names, sorted.
func (c *Config) ProductNames() []string {
	names := make([]string, 0, len(c.Products))
	for name := range c.Products {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Config) Product(name string) (*Product, error) {
	p, ok := c.Products[name]
	if !ok {
		return nil, &UnknownProductError{Product: name, Valid: c.ProductNames()}
	}
	return p, nil
}

// SupportsPlatform reports whether platform is listed in platforms.
func (c *Config) SupportsPlatform(platform string) bool {
	return slices.Contains(c.Platforms, platform)
}

// Resolve returns p as an absolute path, resolving relative paths against Dir.
func (c *Config) Resolve(p string) string {
	return fsh.ResolveAgainst(c.Dir, p)
}

// SolutionPath is the absolute path of the solution to update.
func (c *Config) SolutionPath() string {
	return c.Resolve(c.Solution.Path)
}

// SolutionOutput is where an updated solution is written when no output is
// requested explicitly.
func (c *Config) SolutionOutput() string {
	if c.Solution.Output != "" {
		return c.Resolve(c.Solution.Output)
	}
	return c.SolutionPath() + ".test.sln"
}
