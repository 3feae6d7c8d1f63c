package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/unveil/internal/config"
	"github.com/idelchi/unveil/internal/logic"
)

// NewServeCommand creates a new cobra command for the serve subcommand.
func NewServeCommand(cfg *config.Config, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve [flags]",
		Short:   "Serve decryption over HTTP",
		Args:    cobra.NoArgs,
		PreRunE: preRun(cfg, cfg.ValidateServe),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.RunServe(cfg, version)
		},
	}

	addKeystreamFlags(cmd)

	cmd.Flags().String("addr", ":8010", "Address to listen on")
	cmd.Flags().String("max-upload", "500MiB", "Largest accepted video upload")

	return cmd
}
