package app

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	f := formatValue("text")
	assert.Equal(t, "text", f.String())
	assert.Equal(t, "<format>", f.Type())

	t.Run("valid values", func(t *testing.T) {
		t.Parallel()
		f := formatValue("text")
		err := f.Set("json")
		require.NoError(t, err)
		assert.Equal(t, "json", f.String())

		err = f.Set("text")
		require.NoError(t, err)
		assert.Equal(t, "text", f.String())
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		f := formatValue("json")
		err := f.Set("invalid")
		require.EqualError(t, err, "must be 'text' or 'json'")
		assert.Equal(t, "json", f.String())
	})
}

func TestPathValue(t *testing.T) {
	t.Parallel()

	p := pathValue("")
	assert.Empty(t, p.String())
	assert.Equal(t, "<path>", p.Type())

	t.Run("set value", func(t *testing.T) {
		t.Parallel()
		err := p.Set("/some/path")
		require.NoError(t, err)
		assert.Equal(t, "/some/path", p.String())
	})
}

func TestAddOutputFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want OutputOptions
	}{
		{"defaults", nil, OutputOptions{Format: FormatText, UseColour: true}},
		{"json", []string{"-o", "json"}, OutputOptions{Format: FormatJSON, UseColour: true}},
		{"verbose without colour", []string{"--verbose", "--nocolour"}, OutputOptions{Format: FormatText, Verbose: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got OutputOptions
			cmd := &cobra.Command{Use: "x"}
			cmd.Flags().Bool("nocolour", false, "")
			opts := addOutputFlags(cmd)
			cmd.RunE = func(_ *cobra.Command, _ []string) error {
				got = opts()
				return nil
			}
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()
		cmd := &cobra.Command{Use: "x", RunE: func(_ *cobra.Command, _ []string) error { return nil }}
		addOutputFlags(cmd)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		cmd.SetArgs([]string{"--output", "xml"})
		require.ErrorContains(t, cmd.Execute(), "must be 'text' or 'json'")
	})
}
