// Package commands provides the command-line interface for the unveil tool.
//
// It implements commands for:
//   - decryption
//   - verification
//   - keystream validation
//   - the HTTP service
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/unveil/internal/config"
)

// preRun returns a PreRunE handler that stores positional args as cfg.Files,
// loads flags and UNVEIL_* environment variables into cfg and validates it.
// rules, when set, applies the checks specific to the command.
func preRun(cfg *config.Config, rules func() error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Files = args

		if err := cobraext.Validate(cfg, cfg); err != nil {
			return err //nolint:wrapcheck // already wrapped
		}

		if rules == nil {
			return nil
		}

		return rules()
	}
}

// addKeystreamFlags registers the two mutually exclusive keystream sources.
func addKeystreamFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("keystream", "k", "", "Keystream as hex text (whitespace is ignored)")
	cmd.Flags().
		StringP("keystream-file", "f", "", "Path to the keystream file (hex text or JSON document from the generator)")
}
