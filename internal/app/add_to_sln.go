package app

import (
	"github.com/spf13/cobra"

	"github.com/pdfedit/wintools/internal/sln"
)

func NewAddToSlnCmd(mgr Manager) *cobra.Command {
	var opts sln.UpdateOptions
	dest := pathValue("")

	cmd := &cobra.Command{
		Use:   "add-to-sln",
		Short: "Add new tool projects to the Visual Studio solution",
		Long: `Add every project of the vcproj directory that the solution does not list yet.
New entries copy the settings of the first tool project already in the solution.

The solution is backed up to <solution>.bckp and the result is written to
<solution>.test.sln unless --dest or --in-place say otherwise.`,
		Args: cobra.NoArgs,
		Example: `
wintools add-to-sln
wintools add-to-sln --in-place
wintools add-to-sln --dest ./pdfedit.new.sln --dry-run
`,
	}

	cmd.Flags().Var(&dest, "dest", "Where to write the updated solution")
	cmd.Flags().BoolVarP(&opts.InPlace, "in-place", "i", false, "Overwrite the solution itself")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Show which projects would be added")
	cmd.MarkFlagsMutuallyExclusive("dest", "in-place")
	outputOptions := addOutputFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts.Output = string(dest)
		return mgr.AddToSln(cmd.Context(), opts, outputOptions())
	}

	return cmd
}
