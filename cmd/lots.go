package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lotdrop/lotdrop/pkg/environment"
	"github.com/lotdrop/lotdrop/pkg/logging"
	"github.com/lotdrop/lotdrop/pkg/store"
)

var (
	lotKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6495ED")).Bold(true)
	lotCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
)

// NewLotsCommand creates the 'lots' command, which lists an auction's lots
// with their picture counts.
func NewLotsCommand(fs afero.Fs, ctx context.Context, env *environment.Environment, logger *logging.Logger) *cobra.Command {
	var auctionID string

	cmd := &cobra.Command{
		Use:   "lots",
		Short: "List an auction's lots and their pictures",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(fs, env.DBPath, filepath.Join(env.DataDir, "blobs"))
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			lots, err := s.ListLots(ctx, auctionID)
			if err != nil {
				return err
			}

			for _, lot := range lots {
				pictures, err := s.LotPictures(ctx, lot.ID)
				if err != nil {
					return err
				}
				var total int64
				for _, picture := range pictures {
					total += picture.Size
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
					lotKeyStyle.Render(lot.Key),
					lot.Title,
					lotCountStyle.Render(fmt.Sprintf("%d pictures, %s", len(pictures), humanize.Bytes(uint64(total)))))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&auctionID, "auction", "a", "", "auction ID to list lots for")
	_ = cmd.MarkFlagRequired("auction")

	return cmd
}
