package app

import (
	"github.com/spf13/cobra"

	"github.com/pdfedit/wintools/internal/pack"
)

func NewPackageCmd(mgr Manager) *cobra.Command {
	var req pack.Request
	startDir := pathValue("")
	binDir := pathValue("")

	cmd := &cobra.Command{
		Use:   "package <product> <output>",
		Short: "Build the distribution archive of a product",
		Long: `Run the packaging steps of a product: clean and create the staging directories,
copy the built binaries into them and archive the result into <output>.

Step fields may use $variables from the config, the product and these builtins:
$output, $platform, $product, $start_dir, $bin_dir and $version.`,
		Args: cobra.ExactArgs(2),
		Example: `
wintools package tools ./wintools-bin.zip
wintools package gui ./pdfedit-gui.zip --platform win32 --bin-dir ./Release
wintools package tools ./out.zip --dry-run --verbose
`,
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			return mgr.Config().ProductNames(), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVarP(&req.Platform, "platform", "p", "",
		"Target platform (default: the first configured platform)")
	cmd.Flags().Var(&startDir, "start-dir", "Directory used as $start_dir (default: the config directory)")
	cmd.Flags().Var(&binDir, "bin-dir", "Directory holding the built binaries (overrides binDir)")
	cmd.Flags().BoolVarP(&req.DryRun, "dry-run", "n", false, "Show what would be done without changing anything")
	cmd.Flags().BoolVar(&req.KeepStaging, "keep-staging", false, "Keep the staging directories after archiving")
	outputOptions := addOutputFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req.Product = args[0]
		req.Output = args[1]
		req.StartDir = string(startDir)
		req.BinDir = string(binDir)
		return mgr.Package(cmd.Context(), req, outputOptions())
	}

	return cmd
}
