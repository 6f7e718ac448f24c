package report

import (
	"fmt"
	"io"
	"strings"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func statusColour(s Status) string {
	switch s {
	case StatusCreated, StatusAdded, StatusArchived, StatusDone:
		return colGreen
	case StatusPlanned:
		return colYellow
	default:
		return colGrey
	}
}

func (tr *TextReporter) Write(w io.Writer, s *Summary) error {
	divider := strings.Repeat("-", 40)

	title := "WINTOOLS " + strings.ToUpper(s.Operation)
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, title+"\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started: "), tr.cs(colWhite, s.StartTime.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration:"), tr.cs(colWhite, s.EndTime.Sub(s.StartTime).String()))
	if s.Output != "" {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Output:  "), tr.cs(colWhite, s.Output))
	}
	fmt.Fprintf(w, "%s\n", divider)

	width := 0
	for _, e := range s.Entries {
		width = max(width, len(e.Name))
	}

	for _, e := range s.Entries {
		col := statusColour(e.Status)
		status := tr.cs(col, "["+strings.ToUpper(string(e.Status))+"]")
		fmt.Fprintf(w, "%s %-*s", status, width, e.Name)
		if tr.Verbose && e.Path != "" {
			fmt.Fprintf(w, "  %s", tr.cs(colGrey, e.Path))
		}
		fmt.Fprintln(w)
		if tr.Verbose && e.Detail != "" {
			fmt.Fprintf(w, "    %s\n", e.Detail)
		}
	}

	if len(s.Entries) > 0 {
		fmt.Fprintf(w, "%s\n", divider)
	}
	counts := s.Counts()
	parts := make([]string, 0, len(counts))
	for _, st := range s.statuses() {
		parts = append(parts, fmt.Sprintf("%d %s", counts[st], st))
	}
	stats := "nothing to do"
	if len(parts) > 0 {
		stats = strings.Join(parts, ", ")
	}
	fmt.Fprintf(w, "%s%s\n", tr.cs(colBoldWhite, "Summary: "), tr.cs(colBoldGreen, stats))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}
