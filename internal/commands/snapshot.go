package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/gitops"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newSnapshotCommand(opts *rootOptions) *cobra.Command {
	var message string
	var noCommit bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the book as CSV under snapshot/ and commit it to git",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			b, err := p.store.LoadBook(ctx)
			if err != nil {
				return fmt.Errorf("loading book: %w", err)
			}
			if message == "" {
				message = "snapshot: " + p.today().String()
			}
			author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
			return writeSnapshot(ctx, cmd.OutOrStdout(), p.root, b, message, author, !noCommit)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "write the CSV files only")

	return cmd
}

// writeSnapshot writes b under root and, when commit is set, commits the
// result, initializing the repository first if needed.
func writeSnapshot(ctx context.Context, out io.Writer, root string, b model.Book, message string, author gitops.Author, commit bool) error {
	written, err := gitops.WriteSnapshot(root, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d files to %s/\n", len(written), gitops.SnapshotDir)
	if !commit {
		return nil
	}

	if !gitops.IsRepo(root) {
		if err := gitops.Init(ctx, root); err != nil {
			return err
		}
	}
	changed, err := gitops.HasChanges(ctx, root)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(out, "Nothing to commit")
		return nil
	}
	hash, err := gitops.CommitAll(ctx, root, message, author)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Committed %s\n", hash)
	return nil
}
