package sln

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfedit/wintools/internal/config"
	"github.com/pdfedit/wintools/internal/vcproj"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeProject(t *testing.T, dir, name, guid string) {
	t.Helper()
	content, err := vcproj.Render(&vcproj.Project{Name: name, GUID: guid}, []string{name + ".cc"}, 9)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+vcproj.Ext), content, 0o600))
}

// projectsDir lays out a projects directory holding the sample solution and
// project files for pdftool and flattener.
func projectsDir(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pdfedit.vc2008.sln"), []byte(vsSolution()), 0o600))
	writeProject(t, filepath.Join(dir, "tools"), "pdftool", toolGUID)
	writeProject(t, filepath.Join(dir, "tools"), "flattener", "F4B0B7E4-A405-4EB1-A74F-0765181FE3BD")
	return config.Default(dir)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("writes test solution and backup", func(t *testing.T) {
		t.Parallel()
		cfg := projectsDir(t)
		res, err := NewUpdater(cfg, discardLogger()).Update(context.Background(), UpdateOptions{})
		require.NoError(t, err)

		assert.Equal(t, cfg.SolutionPath()+".test.sln", res.Output)
		assert.Equal(t, cfg.SolutionPath()+".bckp", res.Backup)
		assert.Equal(t, []string{"pdftool"}, res.Present)
		assert.Equal(t, []Addition{{Name: "flattener", GUID: "F4B0B7E4-A405-4EB1-A74F-0765181FE3BD"}}, res.Added)

		backup, err := os.ReadFile(res.Backup)
		require.NoError(t, err)
		assert.Equal(t, vsSolution(), string(backup))

		original, err := os.ReadFile(res.Solution)
		require.NoError(t, err)
		assert.Equal(t, vsSolution(), string(original), "the solution itself is untouched")

		out, err := os.ReadFile(res.Output)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(out), "\xEF\xBB\xBF\r\n"))
		assert.Contains(t, string(out), "\"tools\\flattener.vcproj\", \"{F4B0B7E4-A405-4EB1-A74F-0765181FE3BD}\"\r\n")
	})

	t.Run("in place", func(t *testing.T) {
		t.Parallel()
		cfg := projectsDir(t)
		res, err := NewUpdater(cfg, discardLogger()).Update(context.Background(), UpdateOptions{InPlace: true})
		require.NoError(t, err)
		assert.Equal(t, res.Solution, res.Output)

		out, err := os.ReadFile(res.Solution)
		require.NoError(t, err)
		assert.Contains(t, string(out), "flattener")

		// A second run finds everything present.
		res, err = NewUpdater(cfg, discardLogger()).Update(context.Background(), UpdateOptions{InPlace: true})
		require.NoError(t, err)
		assert.Empty(t, res.Added)
		assert.Equal(t, []string{"pdftool", "flattener"}, res.Present)
	})

	t.Run("in place keeps the first backup and the file mode", func(t *testing.T) {
		t.Parallel()
		cfg := projectsDir(t)
		require.NoError(t, os.Chmod(cfg.SolutionPath(), 0o600))
		updater := NewUpdater(cfg, discardLogger())

		writeProject(t, filepath.Join(cfg.Dir, "tools"), "merger", "F4B0B7E4-A405-4EB1-A74F-0765181FE3BE")
		_, err := updater.Update(context.Background(), UpdateOptions{InPlace: true})
		require.NoError(t, err)
		writeProject(t, filepath.Join(cfg.Dir, "tools"), "splitter", "F4B0B7E4-A405-4EB1-A74F-0765181FE3BF")
		res, err := updater.Update(context.Background(), UpdateOptions{InPlace: true})
		require.NoError(t, err)
		assert.Equal(t, []Addition{{Name: "splitter", GUID: "F4B0B7E4-A405-4EB1-A74F-0765181FE3BF"}}, res.Added)

		backup, err := os.ReadFile(res.Backup)
		require.NoError(t, err)
		assert.Equal(t, vsSolution(), string(backup), "the backup holds the solution before the first update")

		if runtime.GOOS != "windows" {
			fi, err := os.Stat(res.Solution)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
		}
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		t.Parallel()
		cfg := projectsDir(t)
		output := filepath.Join(t.TempDir(), "out.sln")
		res, err := NewUpdater(cfg, discardLogger()).Update(context.Background(), UpdateOptions{Output: output, DryRun: true})
		require.NoError(t, err)
		assert.Len(t, res.Added, 1)
		assert.Equal(t, output, res.Output)
		assert.NoFileExists(t, output)
		assert.NoFileExists(t, cfg.SolutionPath()+BackupExt)
	})

	t.Run("projects without a guid are skipped", func(t *testing.T) {
		t.Parallel()
		cfg := projectsDir(t)
		broken := filepath.Join(cfg.Dir, "tools", "broken.vcproj")
		require.NoError(t, os.WriteFile(broken, []byte("<VisualStudioProject Name=\"broken\">\n"), 0o600))

		res, err := NewUpdater(cfg, discardLogger()).Update(context.Background(), UpdateOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, []string{broken}, res.Skipped)
	})

	t.Run("duplicate project names", func(t *testing.T) {
		t.Parallel()
		cfg := projectsDir(t)
		content, err := os.ReadFile(filepath.Join(cfg.Dir, "tools", "pdftool.vcproj"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(cfg.Dir, "tools", "pdftool-copy.vcproj"), content, 0o600))

		_, err = NewUpdater(cfg, discardLogger()).Update(context.Background(), UpdateOptions{})
		var target *DuplicateProjectError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "pdftool", target.Project)
		assert.Len(t, target.Paths, 2)
	})

	t.Run("missing solution", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default(t.TempDir())
		_, err := NewUpdater(cfg, discardLogger()).Update(context.Background(), UpdateOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot open solution")
	})
}
