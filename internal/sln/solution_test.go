package sln

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	typeCpp  = "8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942"
	coreGUID = "4E265089-FF11-4B4E-B0DA-7BFDEE750F9F"
	toolGUID = "F4B0B7E4-A405-4EB1-A74F-0765181FE3BC"
)

const solutionText = `
Microsoft Visual Studio Solution File, Format Version 10.00
# Visual Studio 2008
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "pdfedit-core-dev", "pdfedit-core-dev.vcproj", "{4E265089-FF11-4B4E-B0DA-7BFDEE750F9F}"
EndProject
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "pdftool", "tools\pdftool.vcproj", "{F4B0B7E4-A405-4EB1-A74F-0765181FE3BC}"
	ProjectSection(ProjectDependencies) = postProject
		{4E265089-FF11-4B4E-B0DA-7BFDEE750F9F} = {4E265089-FF11-4B4E-B0DA-7BFDEE750F9F}
	EndProjectSection
EndProject
Global
	GlobalSection(SolutionConfigurationPlatforms) = preSolution
		Debug|Win32 = Debug|Win32
		Release|Win32 = Release|Win32
	EndGlobalSection
	GlobalSection(ProjectConfigurationPlatforms) = postSolution
		{4E265089-FF11-4B4E-B0DA-7BFDEE750F9F}.Debug|Win32.ActiveCfg = Debug|Win32
		{F4B0B7E4-A405-4EB1-A74F-0765181FE3BC}.Debug|Win32.ActiveCfg = Debug|Win32
		{F4B0B7E4-A405-4EB1-A74F-0765181FE3BC}.Debug|Win32.Build.0 = Debug|Win32
	EndGlobalSection
	GlobalSection(SolutionProperties) = preSolution
		HideSolutionNode = FALSE
	EndGlobalSection
EndGlobal
`

// vsSolution returns solutionText as Visual Studio writes it: BOM and CRLF.
func vsSolution() string {
	return "\xEF\xBB\xBF" + strings.ReplaceAll(solutionText, "\n", "\r\n")
}

func TestParse(t *testing.T) {
	t.Parallel()

	s, err := Parse(strings.NewReader(vsSolution()))
	require.NoError(t, err)

	assert.True(t, s.BOM)
	assert.True(t, s.CRLF)
	assert.Len(t, s.Header, 10)
	assert.Empty(t, s.Trailer)
	require.Len(t, s.Sections, 3)
	assert.Equal(t, "GlobalSection(ProjectConfigurationPlatforms) = postSolution", s.Sections[1].Header)
	assert.Len(t, s.Sections[1].Lines, 3)
	assert.Equal(t, "\t\tHideSolutionNode = FALSE", s.Sections[2].Lines[0])
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for name, text := range map[string]string{
		"visual studio": vsSolution(),
		"unix":          solutionText,
		"trailer":       solutionText + "# generated\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s, err := Parse(strings.NewReader(text))
			require.NoError(t, err)

			var buf bytes.Buffer
			_, err = s.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, text, buf.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no Global", func(t *testing.T) {
		t.Parallel()
		_, err := Parse(strings.NewReader("Microsoft Visual Studio Solution File\n"))
		var target *MissingGlobalError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "Global", target.Marker)
	})

	t.Run("no EndGlobal", func(t *testing.T) {
		t.Parallel()
		_, err := Parse(strings.NewReader(strings.Replace(solutionText, "EndGlobal\n", "", 1)))
		var target *MissingGlobalError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "EndGlobal", target.Marker)
	})

	t.Run("line outside a section", func(t *testing.T) {
		t.Parallel()
		text := strings.Replace(solutionText, "Global\n", "Global\n\tStray = 1\n", 1)
		_, err := Parse(strings.NewReader(text))
		var target *InvalidGlobalLineError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 12, target.Line)
		assert.EqualError(t, err, `line 12: invalid line outside GlobalSection: "Stray = 1"`)
	})
}

func TestProjects(t *testing.T) {
	t.Parallel()

	s, err := Parse(strings.NewReader(vsSolution()))
	require.NoError(t, err)

	entries := s.Projects("tools")
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "pdftool", e.Name)
	assert.Equal(t, typeCpp, e.TypeGUID)
	assert.Equal(t, toolGUID, e.GUID)
	assert.Equal(t, `tools\pdftool.vcproj`, e.Path)
	assert.Equal(t, 5, e.Line)
	assert.Len(t, e.Body, 3)

	assert.Empty(t, s.Projects("gui"))
}

func TestProjectLine(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		`Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "flattener", "tools\sub\flattener.vcproj", "{ABC}"`,
		ProjectLine(typeCpp, "flattener", "tools/sub", "ABC"))
}
