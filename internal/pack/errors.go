package pack

import (
	"fmt"
	"strings"
)

type UnsupportedPlatformError struct {
	Platform  string
	Supported []string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform '%s' is not supported. Supported platforms are: '%s'",
		e.Platform, strings.Join(e.Supported, "', '"))
}

// UnresolvedVariableError reports a step field still referencing a variable
// after substitution.
type UnresolvedVariableError struct {
	Step  int
	Field string
	Value string
	Names []string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("step %d: %s %q references undefined variable(s): $%s",
		e.Step+1, e.Field, e.Value, strings.Join(e.Names, ", $"))
}

type MissingArtifactError struct {
	Step    int
	Pattern string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("step %d: nothing matches %s", e.Step+1, e.Pattern)
}

// CopyTargetError reports a glob matching several files being copied onto a
// single destination file.
type CopyTargetError struct {
	Step    int
	Pattern string
	Target  string
	Matches int
}

func (e *CopyTargetError) Error() string {
	return fmt.Sprintf("step %d: %s matches %d files but %s is not a directory",
		e.Step+1, e.Pattern, e.Matches, e.Target)
}

type ExecError struct {
	Command []string
	Output  string
	Wrapped error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("command '%s' failed: %v", strings.Join(e.Command, " "), e.Wrapped)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Wrapped }
