package sln

import (
	"regexp"
	"slices"
	"strings"
)

// Addition is a project added to a solution.
type Addition struct {
	Name string
	GUID string
}

// MergeResult is what Merge found and added.
type MergeResult struct {
	// Present lists the projects the solution already had, in solution order.
	Present []string
	Added   []Addition
	// Template is the entry whose body and global settings were copied.
	Template *Entry
}

// Merge adds every project of projects (name to GUID) that the solution lacks.
// Each new project copies the body of the first known entry in projectDir, and
// every global section line mentioning that entry's GUID is repeated for the
// new GUID. The solution is left untouched when an error is returned.
func Merge(s *Solution, projects map[string]string, projectDir string) (*MergeResult, error) {
	pending := make(map[string]string, len(projects))
	for name, guid := range projects {
		pending[name] = strings.ToUpper(guid)
	}

	res := &MergeResult{}
	for _, e := range s.Projects(projectDir) {
		guid, ok := projects[e.Name]
		if !ok {
			return nil, &UnknownProjectError{Project: e.Name}
		}
		if !strings.EqualFold(guid, e.GUID) {
			return nil, &GUIDMismatchError{Project: e.Name, SolutionGUID: e.GUID, ProjectGUID: strings.ToUpper(guid)}
		}
		if res.Template == nil {
			res.Template = &e
		}
		res.Present = append(res.Present, e.Name)
		delete(pending, e.Name)
	}

	if len(pending) == 0 {
		return res, nil
	}
	if res.Template == nil {
		return nil, &NoTemplateProjectError{ProjectDir: projectDir}
	}

	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	slices.Sort(names)

	tmpl := res.Template
	for _, name := range names {
		guid := pending[name]
		s.Header = append(s.Header, ProjectLine(tmpl.TypeGUID, name, projectDir, guid))
		s.Header = append(s.Header, tmpl.Body...)
		s.Header = append(s.Header, "EndProject")
		res.Added = append(res.Added, Addition{Name: name, GUID: guid})
	}

	tmplGUID := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(tmpl.GUID))
	for _, sec := range s.Sections {
		orig := slices.Clone(sec.Lines)
		for _, a := range res.Added {
			for _, l := range orig {
				if tmplGUID.MatchString(l) {
					sec.Lines = append(sec.Lines, tmplGUID.ReplaceAllLiteralString(l, a.GUID))
				}
			}
		}
	}
	return res, nil
}
