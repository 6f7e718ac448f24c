package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pdfedit/wintools/internal/config"
	"github.com/pdfedit/wintools/internal/pack"
	"github.com/pdfedit/wintools/internal/sln"
	"github.com/pdfedit/wintools/internal/vcproj"
)

const pdftoolGUID = "F4B0B7E4-A405-4EB1-A74F-0765181FE3BC"

const testSolution = `
Microsoft Visual Studio Solution File, Format Version 10.00
# Visual Studio 2008
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "pdftool", "tools\pdftool.vcproj", "{F4B0B7E4-A405-4EB1-A74F-0765181FE3BC}"
EndProject
Global
	GlobalSection(ProjectConfigurationPlatforms) = postSolution
		{F4B0B7E4-A405-4EB1-A74F-0765181FE3BC}.Debug|Win32.ActiveCfg = Debug|Win32
	EndGlobalSection
EndGlobal
`

type MockManager struct {
	mock.Mock
	cfg *config.Config
}

func (m *MockManager) Config() *config.Config {
	return m.cfg
}

func (m *MockManager) Package(ctx context.Context, req pack.Request, out OutputOptions) error {
	args := m.Called(ctx, req, out)
	return args.Error(0)
}

func (m *MockManager) CreateVcproj(ctx context.Context, dryRun bool, out OutputOptions) error {
	args := m.Called(ctx, dryRun, out)
	return args.Error(0)
}

func (m *MockManager) WatchVcproj(ctx context.Context, out OutputOptions, readyChan chan<- struct{}) error {
	args := m.Called(ctx, out, readyChan)
	return args.Error(0)
}

func (m *MockManager) AddToSln(ctx context.Context, opts sln.UpdateOptions, out OutputOptions) error {
	args := m.Called(ctx, opts, out)
	return args.Error(0)
}

// safeBuffer is a thread-safe wrapper around bytes.Buffer for use in concurrent tests.
type safeBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *safeBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// checkout lays out a source tree matching the default configuration: tool
// sources in src/tools, a solution listing pdftool and pdftool's project. It
// returns the projects directory the configuration lives in.
func checkout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	projects := filepath.Join(root, "projects")

	writeFile(t, filepath.Join(root, "src", "tools", "pdftool.cc"), "int main() {}")
	writeFile(t, filepath.Join(root, "src", "tools", "flattener.cc"), "int main() {}")
	writeFile(t, filepath.Join(root, "src", "tools", "common.cc"), "")
	writeFile(t, filepath.Join(projects, "pdfedit.vc2008.sln"),
		"\xEF\xBB\xBF"+strings.ReplaceAll(testSolution, "\n", "\r\n"))

	content, err := vcproj.Render(&vcproj.Project{Name: "pdftool", GUID: pdftoolGUID},
		[]string{`..\..\src\tools\pdftool.cc`}, vcproj.DefaultVSVersion)
	require.NoError(t, err)
	writeFile(t, filepath.Join(projects, "tools", "pdftool.vcproj"), string(content))

	writeFile(t, filepath.Join(projects, "output", "pdftool.exe"), "tool")
	writeFile(t, filepath.Join(projects, "output", "flattener.exe"), "tool")
	return projects
}

// testConfig returns the default configuration rooted at dir with a single
// product, tools, that archives the built executables.
func testConfig(dir string) *config.Config {
	cfg := config.Default(dir)
	cfg.Products = map[string]*config.Product{
		"tools": {Steps: []config.Step{
			{Action: config.ActionClean, Path: "$start_dir/stage"},
			{Action: config.ActionCopy, From: "$bin_dir/*.exe", To: "$start_dir/stage/"},
			{Action: config.ActionCopy, From: "$start_dir/readme", To: "$start_dir/stage/", Optional: true},
			{Action: config.ActionArchive, Source: "$start_dir/stage", Output: "$output"},
		}},
	}
	return cfg
}

func newTestManager(cfg *config.Config, w io.Writer) *CLIManager {
	logger := discardLogger()
	packager := pack.NewPackager(cfg, pack.NewZipArchiver(), pack.NewExecRunner(), nil, logger)
	return NewCLIManager(logger, cfg, packager, vcproj.NewGenerator(cfg, logger), sln.NewUpdater(cfg, logger), w)
}
