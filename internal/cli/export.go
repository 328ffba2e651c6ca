package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kanban/internal/codec"
	"kanban/internal/service"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	Format string
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a board snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "yaml", "output format (yaml|json)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, opts *ExportOptions) error {
	c, err := codec.ForFormat(opts.Format)
	if err != nil {
		return err
	}

	repo, err := rootOpts.openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	svc := service.NewBoardService(repo, nil, rootOpts.log)
	board, err := svc.ExportBoard(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	return c.Export(board, w)
}
