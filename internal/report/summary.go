// Package report renders the outcome of a wintools operation.
package report

import (
	"io"
	"slices"
	"time"
)

// Status is what happened to one item of an operation.
type Status string

const (
	StatusCreated  Status = "created"
	StatusAdded    Status = "added"
	StatusPresent  Status = "present"
	StatusSkipped  Status = "skipped"
	StatusDone     Status = "done"
	StatusArchived Status = "archived"
	StatusPlanned  Status = "planned"
)

type Entry struct {
	Name   string
	Path   string
	Status Status
	Detail string
}

// Summary is the result of one operation, independent of output format.
type Summary struct {
	Operation string
	StartTime time.Time
	EndTime   time.Time
	DryRun    bool
	// Output is the main file the operation produced, if any.
	Output  string
	Entries []Entry
}

func NewSummary(operation string, start time.Time) *Summary {
	return &Summary{Operation: operation, StartTime: start}
}

func (s *Summary) Add(e Entry) {
	s.Entries = append(s.Entries, e)
}

// Counts returns the number of entries per status.
func (s *Summary) Counts() map[Status]int {
	counts := map[Status]int{}
	for _, e := range s.Entries {
		counts[e.Status]++
	}
	return counts
}

// statuses returns the statuses present in s, sorted.
func (s *Summary) statuses() []Status {
	var out []Status
	for st := range s.Counts() {
		out = append(out, st)
	}
	slices.Sort(out)
	return out
}

// Reporter writes a Summary in some output format.
type Reporter interface {
	Write(w io.Writer, s *Summary) error
}
