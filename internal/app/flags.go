package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if v != FormatJSON && v != FormatText {
		return fmt.Errorf("must be '%s' or '%s'", FormatText, FormatJSON)
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// addOutputFlags registers --output and --verbose on cmd. The returned function
// reads them, together with the global --nocolour flag, once the command runs.
func addOutputFlags(cmd *cobra.Command) func() OutputOptions {
	format := formatValue(FormatText)
	var verbose bool
	cmd.Flags().VarP(&format, "output", "o", "Output format (text, json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show paths and details for each entry")

	return func() OutputOptions {
		noColour, _ := cmd.Flags().GetBool("nocolour")
		return OutputOptions{Format: string(format), Verbose: verbose, UseColour: !noColour}
	}
}
