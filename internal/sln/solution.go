// Package sln reads, updates and writes Visual Studio solution files.
package sln

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/pdfedit/wintools/internal/fsh"
)

var bom = []byte("\xEF\xBB\xBF")

// Section is one GlobalSection. Header is the trimmed opening line, Lines the
// body exactly as read.
type Section struct {
	Header string
	Lines  []string
}

// Solution splits a .sln file into the lines before Global, the global
// sections and whatever follows EndGlobal. Lines are held without their
// line endings.
type Solution struct {
	BOM      bool
	CRLF     bool
	Header   []string
	Sections []*Section
	Trailer  []string
}

// Parse reads a solution file. A leading UTF-8 byte order mark and CRLF line
// endings are accepted and restored by WriteTo.
func Parse(r io.Reader) (*Solution, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := &Solution{}
	if bytes.HasPrefix(data, bom) {
		s.BOM = true
		data = data[len(bom):]
	}
	s.CRLF = bytes.Contains(data, []byte("\r\n"))

	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	global := -1
	for i, l := range lines {
		if strings.TrimSpace(l) == "Global" {
			global = i
			break
		}
	}
	if global < 0 {
		return nil, &MissingGlobalError{Marker: "Global"}
	}
	s.Header = slices.Clone(lines[:global])

	var cur *Section
	for i := global + 1; i < len(lines); i++ {
		l := lines[i]
		t := strings.TrimSpace(l)
		switch {
		case t == "EndGlobal":
			s.Trailer = slices.Clone(lines[i+1:])
			return s, nil
		case strings.HasPrefix(t, "GlobalSection("):
			cur = &Section{Header: t}
			s.Sections = append(s.Sections, cur)
		case t == "EndGlobalSection":
			cur = nil
		case cur != nil:
			cur.Lines = append(cur.Lines, l)
		case t == "":
		default:
			return nil, &InvalidGlobalLineError{Line: i + 1, Text: l}
		}
	}
	return nil, &MissingGlobalError{Marker: "EndGlobal"}
}

// WriteTo writes the solution back out with its original BOM and line endings.
func (s *Solution) WriteTo(w io.Writer) (int64, error) {
	nl := "\n"
	if s.CRLF {
		nl = "\r\n"
	}

	var buf bytes.Buffer
	if s.BOM {
		buf.Write(bom)
	}
	line := func(l string) {
		buf.WriteString(l)
		buf.WriteString(nl)
	}
	for _, l := range s.Header {
		line(l)
	}
	line("Global")
	for _, sec := range s.Sections {
		line("\t" + sec.Header)
		for _, l := range sec.Lines {
			line(l)
		}
		line("\tEndGlobalSection")
	}
	line("EndGlobal")
	for _, l := range s.Trailer {
		line(l)
	}
	return buf.WriteTo(w)
}

// Entry is a Project block of the solution header.
type Entry struct {
	TypeGUID string
	Name     string
	Path     string
	GUID     string
	// Line is the index of the Project line in Header.
	Line int
	// Body holds the lines between the Project line and EndProject.
	Body []string
}

func projectPattern(projectDir string) *regexp.Regexp {
	dir := regexp.QuoteMeta(fsh.WindowsPath(projectDir) + `\`)
	return regexp.MustCompile(`^\s*Project\("\{(\S+)\}"\) = "(\S+)", "(` + dir + `\S+\.vcproj)", "\{(\S+)\}"\s*$`)
}

// Projects returns the entries whose project file lies in projectDir, a
// solution relative directory.
func (s *Solution) Projects(projectDir string) []Entry {
	re := projectPattern(projectDir)
	var entries []Entry
	for i, l := range s.Header {
		m := re.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		e := Entry{TypeGUID: m[1], Name: m[2], Path: m[3], GUID: m[4], Line: i}
		for _, b := range s.Header[i+1:] {
			if strings.TrimSpace(b) == "EndProject" {
				break
			}
			e.Body = append(e.Body, b)
		}
		entries = append(entries, e)
	}
	return entries
}

// ProjectLine formats the opening line of a Project block.
func ProjectLine(typeGUID, name, projectDir, guid string) string {
	return fmt.Sprintf(`Project("{%s}") = "%s", "%s\%s.vcproj", "{%s}"`,
		typeGUID, name, fsh.WindowsPath(projectDir), name, guid)
}
