package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lotdrop/lotdrop/pkg/api"
	"github.com/lotdrop/lotdrop/pkg/environment"
	"github.com/lotdrop/lotdrop/pkg/logging"
	"github.com/lotdrop/lotdrop/pkg/store"
)

// NewServeCommand creates the 'serve' command, which runs the API server.
func NewServeCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the lotdrop API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(fs, env.DBPath, filepath.Join(env.DataDir, "blobs"))
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			server := api.NewServer(s, env, logger)
			return server.Run(ctx)
		},
	}
}
