package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/unveil/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// Every flag can also be set through an UNVEIL_ prefixed environment variable,
// e.g. --keystream-file as UNVEIL_KEYSTREAM_FILE.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "unveil [flags] command [flags]"
	root.Short = "Video keystream decryption utility"
	root.Long = `Reverses prefix-XOR obfuscation of video files using an exported keystream.
Only the leading bytes covered by the keystream are decrypted, the rest is copied as is,
and the result is checked for the "ftyp" container marker.`

	root.PersistentFlags().BoolP("show", "s", false, "Show the configuration and exit")
	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().BoolP("verbose", "v", false, "Show the decrypted header bytes")
	root.PersistentFlags().Bool("stats", false, "Print statistics after processing")

	root.AddCommand(
		NewDecryptCommand(cfg),
		NewVerifyCommand(cfg),
		NewKeystreamCommand(cfg),
		NewServeCommand(cfg, version),
	)

	return root
}
