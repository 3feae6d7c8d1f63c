package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/unveil/internal/config"
	"github.com/idelchi/unveil/internal/logic"
)

// NewKeystreamCommand creates a new cobra command for the keystream subcommand.
func NewKeystreamCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keystream [flags]",
		Aliases: []string{"ks"},
		Short:   "Validate a keystream and optionally save it as normalised hex",
		Args:    cobra.NoArgs,
		PreRunE: preRun(cfg, cfg.ValidateKeystream),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.RunKeystream(cfg)
		},
	}

	addKeystreamFlags(cmd)

	cmd.Flags().String("save", "", "Write the keystream as lowercase hex to this path")

	return cmd
}
