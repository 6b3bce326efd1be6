package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lotdrop/lotdrop/pkg/environment"
	"github.com/lotdrop/lotdrop/pkg/logging"
)

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "lotdrop",
		Short: "Auction file routing service.",
		Long: `Lotdrop routes uploaded auction files to the lot they belong to by decoding
the lot key and sequence number embedded in each file's original name, and
files everything else under the auction itself.`,
	}
	rootCmd.AddCommand(NewInitCommand(fs, ctx, env, logger))
	rootCmd.AddCommand(NewServeCommand(fs, ctx, env, logger))
	rootCmd.AddCommand(NewLotsCommand(fs, ctx, env, logger))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
