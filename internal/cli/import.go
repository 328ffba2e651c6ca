package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kanban/internal/codec"
	"kanban/internal/service"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	Format string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a board snapshot into the database",
		Long: `Load users, tags and work items from a YAML or JSON board snapshot.

Records that already exist (same email, tag name or title) are skipped.
The format is taken from the file extension unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "input format (yaml|json)")

	return cmd
}

func runImport(cmd *cobra.Command, rootOpts *RootOptions, opts *ImportOptions, path string) error {
	c, err := codecFor(path, opts.Format)
	if err != nil {
		return err
	}

	// Parse before opening the database so a bad file leaves it untouched
	board, err := readBoard(c, path)
	if err != nil {
		return err
	}

	repo, err := rootOpts.openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	svc := service.NewBoardService(repo, nil, rootOpts.log)
	report, err := svc.ImportBoard(cmd.Context(), board)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "users:      %d created, %d skipped\n", report.UsersCreated, report.UsersSkipped)
	fmt.Fprintf(out, "tags:       %d created, %d skipped\n", report.TagsCreated, report.TagsSkipped)
	fmt.Fprintf(out, "work items: %d created, %d skipped\n", report.WorkItemsCreated, report.WorkItemsSkipped)
	for _, msg := range report.Rejected {
		fmt.Fprintf(out, "rejected:   %s\n", msg)
	}
	return nil
}

// codecFor picks the codec named by format, or by the file extension when
// format is empty
func codecFor(path, format string) (codec.Codec, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	return codec.ForFormat(format)
}

func readBoard(c codec.Importer, path string) (*codec.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board: %w", err)
	}
	defer f.Close()

	board, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return board, nil
}
