package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonEntry struct {
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type jsonOutput struct {
	Operation string         `json:"operation"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Duration  string         `json:"duration"`
	DryRun    bool           `json:"dryRun"`
	Output    string         `json:"output,omitempty"`
	Stats     map[Status]int `json:"stats"`
	Entries   []jsonEntry    `json:"entries"`
}

func (jr *JSONReporter) Write(w io.Writer, s *Summary) error {
	out := jsonOutput{
		Operation: s.Operation,
		StartTime: s.StartTime.Format(time.RFC3339),
		EndTime:   s.EndTime.Format(time.RFC3339),
		Duration:  s.EndTime.Sub(s.StartTime).String(),
		DryRun:    s.DryRun,
		Output:    s.Output,
		Stats:     s.Counts(),
		Entries:   make([]jsonEntry, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		out.Entries = append(out.Entries, jsonEntry(e))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
