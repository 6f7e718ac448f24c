package vcproj

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProject = `<?xml version="1.0" encoding="Windows-1252"?>
<VisualStudioProject
	ProjectType="Visual C++"
	Version="9.00"
	Name="pdftool"
	ProjectGUID="{f4b0b7e4-a405-4eb1-a74f-0765181fe3bc}"
	>
	<Platforms>
		<Platform
			Name="Win32"
		/>
	</Platforms>
	<References>
		<ProjectReference
			ReferencedProjectIdentifier="{4E265089-FF11-4B4E-B0DA-7BFDEE750F9F}"
		/>
	</References>
</VisualStudioProject>
`

func TestParseProject(t *testing.T) {
	t.Parallel()

	p, err := ParseProject(strings.NewReader(sampleProject), "tools/pdftool.vcproj")
	require.NoError(t, err)
	assert.Equal(t, "pdftool", p.Name)
	assert.Equal(t, "F4B0B7E4-A405-4EB1-A74F-0765181FE3BC", p.GUID)
	assert.Equal(t, "tools/pdftool.vcproj", p.Path)
	assert.Equal(t, []string{"F4B0B7E4-A405-4EB1-A74F-0765181FE3BC", "4E265089-FF11-4B4E-B0DA-7BFDEE750F9F"}, p.GUIDs)

	t.Run("no name or guid", func(t *testing.T) {
		t.Parallel()
		p, err := ParseProject(strings.NewReader("<VisualStudioProject>\r\n</VisualStudioProject>\r\n"), "x.vcproj")
		require.NoError(t, err)
		assert.Empty(t, p.Name)
		assert.Empty(t, p.GUID)
	})
}

func TestScanDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i, name := range []string{"b", "a", "c"} {
		content := strings.ReplaceAll(sampleProject, "pdftool", name)
		content = strings.ReplaceAll(content, "fe3bc", "fe3b"+string(rune('0'+i)))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+Ext), []byte(content), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte(`Name="nope"`), 0o600))

	projects, err := ScanDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "a", projects[0].Name)
	assert.Equal(t, "b", projects[1].Name)
	assert.Equal(t, "c", projects[2].Name)
	assert.Equal(t, filepath.Join(dir, "a.vcproj"), projects[0].Path)

	assert.Equal(t, []string{
		"4E265089-FF11-4B4E-B0DA-7BFDEE750F9F",
		"F4B0B7E4-A405-4EB1-A74F-0765181FE3B0",
		"F4B0B7E4-A405-4EB1-A74F-0765181FE3B1",
		"F4B0B7E4-A405-4EB1-A74F-0765181FE3B2",
	}, KnownGUIDs(projects))

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		projects, err := ScanDir(context.Background(), filepath.Join(dir, "nope"))
		require.NoError(t, err)
		assert.Empty(t, projects)
	})
}
