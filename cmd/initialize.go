package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lotdrop/lotdrop/pkg/environment"
	"github.com/lotdrop/lotdrop/pkg/logging"
	"github.com/lotdrop/lotdrop/pkg/store"
)

// NewInitCommand creates the 'init' command, which prepares the data
// directory and database.
func NewInitCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the lotdrop data directory and database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exists, _ := afero.Exists(fs, env.DBPath); exists {
				logger.Info("database already exists", "path", env.DBPath)
				return nil
			}

			if !env.IsNonInteractive() {
				var confirm bool
				if err := huh.Run(
					huh.NewConfirm().
						Title(fmt.Sprintf("Create lotdrop data directory at %s?", env.DataDir)).
						Value(&confirm),
				); err != nil {
					return fmt.Errorf("could not confirm initialization: %w", err)
				}
				if !confirm {
					logger.Warn("initialization cancelled")
					return nil
				}
			}

			s, err := store.Open(fs, env.DBPath, filepath.Join(env.DataDir, "blobs"))
			if err != nil {
				return fmt.Errorf("initializing store: %w", err)
			}
			defer s.Close()

			logger.Info("initialized lotdrop data directory", "data-dir", env.DataDir, "db", env.DBPath)
			return nil
		},
	}
}
