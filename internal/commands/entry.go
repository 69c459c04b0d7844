package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/query"
)

func newEntryCommand(opts *rootOptions) *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and browse journal entries",
	}
	entryCmd.AddCommand(newEntryAddCommand(opts))
	entryCmd.AddCommand(newEntryRemoveCommand(opts))
	entryCmd.AddCommand(newEntryTagCommand(opts))
	entryCmd.AddCommand(newEntryListCommand(opts))
	entryCmd.AddCommand(newEntryExportCommand(opts))
	return entryCmd
}

func newEntryAddCommand(opts *rootOptions) *cobra.Command {
	var debit, credit, amount, on, desc, payee, note string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a two-line entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			_, l, err := p.ledger(ctx, opts.ledger)
			if err != nil {
				return err
			}
			dr, err := ledger.ResolveAccount(l, debit)
			if err != nil {
				return fmt.Errorf("debit account: %w", err)
			}
			cr, err := ledger.ResolveAccount(l, credit)
			if err != nil {
				return fmt.Errorf("credit account: %w", err)
			}
			minor, err := parseAmount(amount, dr.Currency)
			if err != nil {
				return err
			}
			day, err := parseDate(on, p.today())
			if err != nil {
				return err
			}

			e, err := p.books.Ledgers().NewSimpleEntry(l, journal.SimpleParams{
				Date:            day,
				Description:     desc,
				DebitAccountID:  dr.ID,
				CreditAccountID: cr.ID,
				Amount:          minor,
				Tags:            tags,
				Payee:           payee,
				Note:            note,
			})
			if err != nil {
				return err
			}
			if _, err := p.store.AppendEntry(ctx, l.ID, e); err != nil {
				return err
			}

			details := fmt.Sprintf("%s %s -> %s %s", day, cr.Path, dr.Path, formatAmount(minor, dr.Currency))
			p.record("entry add", "add_entry", l.ID, e.ID, details)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", e.ID, details)
			return nil
		},
	}

	cmd.Flags().StringVar(&debit, "debit", "", "debited account path or id (required)")
	cmd.Flags().StringVar(&credit, "credit", "", "credited account path or id (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in main units, e.g. 12.34 (required)")
	cmd.Flags().StringVar(&desc, "desc", "", "description (required)")
	cmd.Flags().StringVar(&on, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&payee, "payee", "", "payee")
	cmd.Flags().StringVar(&note, "note", "", "note")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	for _, f := range []string{"debit", "credit", "amount", "desc"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newEntryRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Remove an entry and reverse its postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			_, l, err := p.ledger(ctx, opts.ledger)
			if err != nil {
				return err
			}
			if _, err := p.store.RemoveEntry(ctx, l.ID, args[0]); err != nil {
				return err
			}

			p.record("entry remove", "remove_entry", l.ID, args[0], "")
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newEntryTagCommand(opts *rootOptions) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "tag <entry-id> <tag>...",
		Short: "Add tags to an entry, or remove them with --remove",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			_, l, err := p.ledger(ctx, opts.ledger)
			if err != nil {
				return err
			}
			e, ok := ledger.FindEntry(l, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", ledger.ErrEntryNotFound, args[0])
			}
			action := "tag_entry"
			if remove {
				e = journal.RemoveTags(e, args[1:]...)
				action = "untag_entry"
			} else {
				e = journal.AddTags(e, args[1:]...)
			}
			if _, err := p.store.UpdateEntry(ctx, l.ID, e); err != nil {
				return err
			}

			p.record("entry tag", action, l.ID, e.ID, strings.Join(args[1:], ";"))
			fmt.Fprintf(cmd.OutOrStdout(), "%s tags: %s\n", e.ID, strings.Join(e.Tags, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "remove the tags instead")

	return cmd
}

func newEntryListCommand(opts *rootOptions) *cobra.Command {
	var from, to, account, payee, keyword, minAmount, maxAmount string
	var tags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			_, l, err := p.ledger(cmd.Context(), opts.ledger)
			if err != nil {
				return err
			}

			f := query.Filter{Tags: tags, Payee: payee, Keyword: keyword}
			if f.From, err = parseDate(from, f.From); err != nil {
				return err
			}
			if f.To, err = parseDate(to, f.To); err != nil {
				return err
			}
			if minAmount != "" {
				if f.MinAmount, err = parseAmount(minAmount, l.DefaultCurrency); err != nil {
					return err
				}
			}
			if maxAmount != "" {
				if f.MaxAmount, err = parseAmount(maxAmount, l.DefaultCurrency); err != nil {
					return err
				}
			}
			if account != "" {
				a, err := ledger.ResolveAccount(l, account)
				if err != nil {
					return err
				}
				for _, d := range query.WithDescendants(l, a.ID) {
					f.AccountIDs = append(f.AccountIDs, d.ID)
				}
			}

			out := cmd.OutOrStdout()
			idx := accounts.NewIndex(l.Accounts)
			for _, e := range query.Entries(l, f) {
				currency := journal.Currency(e, l.Accounts)
				var paths []string
				for _, line := range e.Lines {
					a, _ := idx.Get(line.AccountID)
					paths = append(paths, side(line.Type)+" "+a.Path)
				}
				fmt.Fprintf(out, "%s  %-40s %-30s %14s  %s",
					e.Date, e.ID, e.Description, formatAmount(query.Size(e), currency), strings.Join(paths, ", "))
				if len(e.Tags) > 0 {
					fmt.Fprintf(out, "  #%s", strings.Join(e.Tags, " #"))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD")
	cmd.Flags().StringVar(&account, "account", "", "account path or id, sub-accounts included")
	cmd.Flags().StringVar(&payee, "payee", "", "payee")
	cmd.Flags().StringVar(&keyword, "keyword", "", "text in description or note")
	cmd.Flags().StringVar(&minAmount, "min", "", "smallest amount in main units")
	cmd.Flags().StringVar(&maxAmount, "max", "", "largest amount in main units")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")

	return cmd
}

func side(t model.LineType) string {
	if t == model.LineDebit {
		return "Dr"
	}
	return "Cr"
}

func newEntryExportCommand(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all entries as CSV, one row per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			_, l, err := p.ledger(cmd.Context(), opts.ledger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			return journal.WriteEntries(w, l.Entries, accounts.NewIndex(l.Accounts))
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}
