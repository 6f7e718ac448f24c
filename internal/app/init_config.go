package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdfedit/wintools/internal/config"
)

// NewInitCmd returns a command writing the default configuration file.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   InitCmdName + " [dir]",
		Short: "Write a default " + config.FileName,
		Long: `Write the default configuration, with comments, to ` + config.FileName + ` in dir
(default: the working directory). An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
wintools init
wintools init ./packaging
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			path, err := config.WriteDefault(dir)
			if err != nil {
				return err
			}

			cmd.Printf("Created %s at: %s\n", config.FileName, path)
			cmd.Println("\nEdit the products section, then build an archive with:")
			cmd.Println("  wintools package tools ./wintools-bin.zip")
			return nil
		},
	}
}
