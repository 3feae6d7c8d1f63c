package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/unveil/internal/config"
	"github.com/idelchi/unveil/internal/logic"
)

// NewVerifyCommand creates a new cobra command for the verify subcommand.
func NewVerifyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verify [flags] files...",
		Aliases: []string{"check"},
		Short:   "Check files for the container marker",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, nil),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.RunVerify(cfg)
		},
	}

	cmd.Flags().Bool("lenient", false, "Report missing markers without failing")

	return cmd
}
