// Init command for the mala CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mala/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Create the configuration directory with a default config.yaml and prepare the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config dir and config.yaml already exist after setup.
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return sysErr(err)
			}
			if err := store.Close(); err != nil {
				return sysErr(fmt.Errorf("finalize storage: %w", err))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "mala initialized successfully")
			fmt.Fprintln(w, "  config:", a.configDir)
			if a.cfg.Backend == types.BackendRedis {
				fmt.Fprintln(w, "  redis: ", a.cfg.Redis.Addr)
			} else {
				fmt.Fprintln(w, "  data:  ", a.cfg.DataDir)
			}
			return nil
		},
	}
}
