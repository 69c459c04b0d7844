package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/validation"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the book's structure, balances and accounting equation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			b, err := p.store.LoadBook(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading book: %w", err)
			}

			r := validation.ValidateBook(b)
			out := cmd.OutOrStdout()
			for _, w := range r.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, e := range r.Errors {
				fmt.Fprintf(out, "error: %s\n", e)
			}
			if !r.OK {
				return fmt.Errorf("book has %d error(s)", len(r.Errors))
			}
			fmt.Fprintf(out, "OK: %d ledger(s), %d warning(s)\n", len(b.Ledgers), len(r.Warnings))
			return nil
		},
	}
}
