package backends

import (
	"fmt"

	"github.com/spf13/cobra"

	"audio2text/internal/app/api/provider"
	"audio2text/internal/config"
)

// Cmd lists the transcription backends compiled into the binary.
var Cmd = &cobra.Command{
	Use:   "backends",
	Short: "List the available transcription backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range provider.ListRegisteredProviders() {
			if name == config.DefaultBackend {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
