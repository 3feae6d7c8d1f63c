package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/unveil/internal/config"
	"github.com/idelchi/unveil/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] files...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files with a keystream",
		Example: `  unveil decrypt -f keystream_131072_bytes.txt wx_encrypted.mp4 -o wx_decrypted.mp4
  unveil decrypt -k "0a1b2c..." --suffix .plain *.mp4`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, cfg.ValidateDecrypt),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}

	addKeystreamFlags(cmd)

	cmd.Flags().StringP("output", "o", "", "Output path, only with a single input file")
	cmd.Flags().String("suffix", "_decrypted", "Suffix inserted before the extension of output files")
	cmd.Flags().Bool("dry-run", false, "Show what would be decrypted without writing files")
	cmd.Flags().Bool("lenient", false, "Do not fail when the container marker is missing")
	cmd.Flags().Bool("preserve-timestamps", false, "Copy the modification time of inputs to outputs")
	cmd.Flags().BoolP("delete", "d", false, "Delete the original file after a successful decryption")

	return cmd
}
