package app

import (
	"github.com/spf13/cobra"
)

func NewCreateVcprojCmd(mgr Manager) *cobra.Command {
	var dryRun bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "create-vcproj",
		Short: "Create Visual Studio projects for new tool sources",
		Long: `Create a Visual Studio 2008 project in the vcproj output directory for every
tool source that has none. Each new project gets a GUID not used by any
existing project. Existing projects are never modified.`,
		Args: cobra.NoArgs,
		Example: `
wintools create-vcproj
wintools create-vcproj --dry-run -o json
wintools create-vcproj --watch
`,
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show which projects would be created")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Create projects as new sources appear")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "watch")
	outputOptions := addOutputFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if watch {
			return mgr.WatchVcproj(cmd.Context(), outputOptions(), nil)
		}
		return mgr.CreateVcproj(cmd.Context(), dryRun, outputOptions())
	}

	return cmd
}
