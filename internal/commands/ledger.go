package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newLedgerCommand(opts *rootOptions) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the ledgers of a book",
	}
	ledgerCmd.AddCommand(newLedgerAddCommand(opts))
	ledgerCmd.AddCommand(newLedgerListCommand(opts))
	ledgerCmd.AddCommand(newLedgerRemoveCommand(opts))
	ledgerCmd.AddCommand(newLedgerArchiveCommand(opts))
	return ledgerCmd
}

func newLedgerAddCommand(opts *rootOptions) *cobra.Command {
	var typ string
	var currency string
	var description string
	var starter string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a daily or topic ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			lt, err := model.ParseLedgerType(typ)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = p.cfg.Book.DefaultCurrency
			}

			ctx := cmd.Context()
			b, err := p.store.LoadBook(ctx)
			if err != nil {
				return fmt.Errorf("loading book: %w", err)
			}
			b, l := p.books.AddLedger(b, ledger.Params{
				Name:            args[0],
				Type:            lt,
				Description:     description,
				DefaultCurrency: currency,
			})
			l, err = seedChart(p.books.Ledgers(), l, starter)
			if err != nil {
				return err
			}
			if b, err = p.books.UpdateLedger(b, l); err != nil {
				return err
			}
			if err := p.store.SaveBook(ctx, b); err != nil {
				return err
			}

			p.record("ledger add", "add_ledger", l.ID, l.ID, fmt.Sprintf("name=%s type=%s currency=%s", l.Name, l.Type, l.DefaultCurrency))
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s ledger %q (%s)\n", l.Type, l.Name, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(model.LedgerTypeTopic), "ledger type: daily or topic")
	cmd.Flags().StringVar(&currency, "currency", "", "default currency (default is the book's)")
	cmd.Flags().StringVar(&description, "description", "", "ledger description")
	cmd.Flags().StringVar(&starter, "starter", "none", "starter chart: personal, travel or none")

	return cmd
}

func newLedgerListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ledgers",
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

			out := cmd.OutOrStdout()
			for _, l := range b.Ledgers {
				flag := ""
				if l.Archived {
					flag = " (archived)"
				}
				fmt.Fprintf(out, "%-40s %-6s %-3s %4d entries  %s%s\n",
					l.ID, l.Type, l.DefaultCurrency, len(l.Entries), l.Name, flag)
			}
			return nil
		},
	}
}

func newLedgerRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name|id>",
		Short: "Remove a ledger other than the main one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeLedger(cmd, opts, args[0], "ledger remove", "remove_ledger", func(p *project, b model.Book, l model.Ledger) (model.Book, error) {
				return p.books.RemoveLedger(b, l.ID)
			})
		},
	}
}

func newLedgerArchiveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <name|id>",
		Short: "Archive a ledger other than the main one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeLedger(cmd, opts, args[0], "ledger archive", "archive_ledger", func(p *project, b model.Book, l model.Ledger) (model.Book, error) {
				return p.books.ArchiveLedger(b, l.ID)
			})
		},
	}
}

func changeLedger(cmd *cobra.Command, opts *rootOptions, ref, command, action string, fn func(*project, model.Book, model.Ledger) (model.Book, error)) error {
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
	l, err := book.FindLedger(b, ref)
	if err != nil {
		return err
	}
	b, err = fn(p, b, l)
	if err != nil {
		return err
	}
	if err := p.store.SaveBook(ctx, b); err != nil {
		return err
	}

	p.record(command, action, l.ID, l.ID, "name="+l.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", command, l.Name)
	return nil
}
