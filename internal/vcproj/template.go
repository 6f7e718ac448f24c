package vcproj

import (
	"bytes"
	"strings"
	"text/template"
)

// DefaultVSVersion is the project format version of Visual Studio 2008.
const DefaultVSVersion = 9

var projectTemplate = template.Must(template.New("vcproj").
	Funcs(template.FuncMap{"lower": strings.ToLower}).
	Parse(`<?xml version="1.0" encoding="Windows-1252"?>
<VisualStudioProject
	ProjectType="Visual C++"
	Version="{{.Version}}.00"
	Name="{{html .Name}}"
	ProjectGUID="{{"{"}}{{.GUID}}{{"}"}}"
	>
	<Platforms>
		<Platform
			Name="Win32"
		/>
		<Platform
			Name="WINCESDK_600 (ARMV4I)"
		/>
	</Platforms>
	<ToolFiles>
	</ToolFiles>
	<Configurations>
{{- range .Configurations}}
		<Configuration
			Name="{{.}}|Win32"
			ConfigurationType="1"
			InheritedPropertySheets="$(SolutionDir)/vsprops/base.vsprops;$(SolutionDir)/vsprops/tools.vsprops;$(SolutionDir)/vsprops/{{lower .}}.vsprops;$(SolutionDir)/vsprops/win32.vsprops"
			>
		</Configuration>
{{- end}}
	</Configurations>
	<References>
	</References>
	<Files>
{{- range .Files}}
		<File
			RelativePath="{{html .}}"
			>
		</File>
{{- end}}
	</Files>
	<Globals>
	</Globals>
</VisualStudioProject>
`))

type templateData struct {
	Version        int
	Name           string
	GUID           string
	Configurations []string
	Files          []string
}

// Render returns the project file for p listing files, which are written as
// given. Lines end in CRLF as Visual Studio writes them.
func Render(p *Project, files []string, vsVersion int) ([]byte, error) {
	if vsVersion <= 0 {
		vsVersion = DefaultVSVersion
	}
	var buf bytes.Buffer
	err := projectTemplate.Execute(&buf, templateData{
		Version:        vsVersion,
		Name:           p.Name,
		GUID:           strings.ToUpper(p.GUID),
		Configurations: []string{"Debug", "Release"},
		Files:          files,
	})
	if err != nil {
		return nil, err
	}
	return bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte("\r\n")), nil
}
