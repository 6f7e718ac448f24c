// Package subst expands $name and ${name} references in build step templates.
//
// Expansion is "safe": references to undefined variables are left in place so
// that a later pass, or a later variable set, may still fill them in.
package subst

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// MaxPasses bounds Resolve. Variables referencing each other in a cycle never
// reach a fixed point.
const MaxPasses = 32

// MaxLength bounds the size of an expanded value. A variable that references
// itself more than once doubles on every pass.
const MaxLength = 1 << 20

var refPattern = regexp.MustCompile(`\$(?:(\$)|([_A-Za-z][_A-Za-z0-9]*)|\{([_A-Za-z][_A-Za-z0-9]*)\})`)

// Vars maps variable names to their values.
type Vars map[string]string

// CycleError is returned when substitution does not settle within MaxPasses.
type CycleError struct {
	Input string
	Last  string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("substitution of %q did not settle (last value %q)", e.Input, e.Last)
}

// escaped stands in for "$$" while Resolve iterates, so an escaped reference
// is not expanded by a later pass.
const escaped = "\x00"

// Expand performs a single substitution pass over s.
func Expand(s string, vars Vars) string {
	return expand(s, vars, "$")
}

func expand(s string, vars Vars, dollar string) string {
	return refPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := refPattern.FindStringSubmatch(m)
		switch {
		case sub[1] != "":
			return dollar
		case sub[2] != "":
			if v, ok := vars[sub[2]]; ok {
				return v
			}
		case sub[3] != "":
			if v, ok := vars[sub[3]]; ok {
				return v
			}
		}
		return m
	})
}

// Resolve expands s repeatedly until it stops changing, so that variables may
// be defined in terms of one another. "$$" yields a literal "$" that is not
// expanded again.
func Resolve(s string, vars Vars) (string, error) {
	out, _, err := Substitute(s, vars)
	return out, err
}

// Substitute is Resolve that also returns the names still referenced once
// expansion settles. Names written with an escaped "$$" are not reported.
func Substitute(s string, vars Vars) (string, []string, error) {
	cur := s
	for range MaxPasses {
		next := expand(cur, vars, escaped)
		if next == cur {
			return strings.ReplaceAll(cur, escaped, "$"), Unresolved(cur), nil
		}
		if len(next) > MaxLength {
			return "", nil, &CycleError{Input: s, Last: next[:64]}
		}
		cur = next
	}
	return "", nil, &CycleError{Input: s, Last: strings.ReplaceAll(cur, escaped, "$")}
}

// Unresolved returns the sorted, de-duplicated names still referenced by s.
func Unresolved(s string) []string {
	seen := map[string]bool{}
	for _, sub := range refPattern.FindAllStringSubmatch(s, -1) {
		switch {
		case sub[2] != "":
			seen[sub[2]] = true
		case sub[3] != "":
			seen[sub[3]] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Merge returns a new Vars holding base overlaid with each of overrides in turn.
func Merge(base Vars, overrides ...Vars) Vars {
	out := make(Vars, len(base))
	maps.Copy(out, base)
	for _, o := range overrides {
		maps.Copy(out, o)
	}
	return out
}
