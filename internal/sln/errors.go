package sln

import (
	"fmt"
	"strings"
)

// MissingGlobalError is returned for a solution without a Global or EndGlobal line.
type MissingGlobalError struct {
	Marker string
}

func (e *MissingGlobalError) Error() string {
	return fmt.Sprintf("solution has no %s line", e.Marker)
}

// InvalidGlobalLineError reports a line inside Global that belongs to no GlobalSection.
type InvalidGlobalLineError struct {
	Line int
	Text string
}

func (e *InvalidGlobalLineError) Error() string {
	return fmt.Sprintf("line %d: invalid line outside GlobalSection: %q", e.Line, strings.TrimSpace(e.Text))
}

type GUIDMismatchError struct {
	Project      string
	SolutionGUID string
	ProjectGUID  string
}

func (e *GUIDMismatchError) Error() string {
	return fmt.Sprintf("GUIDs of project '%s' do not match: solution has {%s}, project file has {%s}",
		e.Project, e.SolutionGUID, e.ProjectGUID)
}

// UnknownProjectError reports a solution entry with no matching project file.
type UnknownProjectError struct {
	Project string
}

func (e *UnknownProjectError) Error() string {
	return fmt.Sprintf("solution lists unknown project '%s'", e.Project)
}

type NoTemplateProjectError struct {
	ProjectDir string
}

func (e *NoTemplateProjectError) Error() string {
	return fmt.Sprintf("solution lists no project in %s to copy settings from", e.ProjectDir)
}

type DuplicateProjectError struct {
	Project string
	Paths   []string
}

func (e *DuplicateProjectError) Error() string {
	return fmt.Sprintf("project name '%s' is used by several files: %s", e.Project, strings.Join(e.Paths, ", "))
}
