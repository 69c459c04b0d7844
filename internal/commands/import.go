package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/importer"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

type importOptions struct {
	feed    string
	format  string
	bank    string
	expense string
	income  string
	dryRun  bool
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var o importOptions

	cmd := &cobra.Command{
		Use:   "import [csv]",
		Short: "Import a bank statement CSV as balanced entries",
		Long: `Import books every row of a bank statement as a two-line entry against
the bank account: money out debits the expense account, money in credits the
income account. Rows already in the ledger are skipped.

Without a file argument every CSV in import/ is imported with the --feed
mapping and moved to import/processed/.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			feed, err := o.resolve(p.cfg)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return runImport(cmd.Context(), cmd.OutOrStdout(), p, opts.ledger, args[0], feed, o.dryRun)
			}

			files, err := importer.Scan(p.root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}
			for _, f := range files {
				if err := runImport(cmd.Context(), cmd.OutOrStdout(), p, opts.ledger, f.Path, feed, o.dryRun); err != nil {
					return err
				}
				if o.dryRun {
					continue
				}
				if err := importer.MarkProcessed(p.root, f.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&o.feed, "feed", "", "bank account mapping from ledgerbook.yaml")
	cmd.Flags().StringVar(&o.format, "format", "chase", "statement format")
	cmd.Flags().StringVar(&o.bank, "bank", "", "bank account path")
	cmd.Flags().StringVar(&o.expense, "expense", "", "account debited by money out")
	cmd.Flags().StringVar(&o.income, "income", "", "account credited by money in")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "show what would be imported without saving")

	return cmd
}

// resolve merges the named feed with explicit flags; flags win.
func (o importOptions) resolve(cfg *config.Config) (config.BankAccount, error) {
	feed := config.BankAccount{Format: o.format}
	if o.feed != "" {
		f, ok := cfg.BankAccount(o.feed)
		if !ok {
			return config.BankAccount{}, fmt.Errorf("no bank account %q in %s", o.feed, config.FileName)
		}
		feed = f
	}
	for _, kv := range []struct {
		dst *string
		v   string
	}{{&feed.Account, o.bank}, {&feed.Expense, o.expense}, {&feed.Income, o.income}} {
		if kv.v != "" {
			*kv.dst = kv.v
		}
	}
	if feed.Account == "" || feed.Expense == "" || feed.Income == "" {
		return config.BankAccount{}, errors.New("bank, expense and income accounts are required (use --feed or flags)")
	}
	return feed, nil
}

func runImport(ctx context.Context, out io.Writer, p *project, ledgerRef, path string, feed config.BankAccount, dryRun bool) error {
	_, l, err := p.ledger(ctx, ledgerRef)
	if err != nil {
		return err
	}

	var m importer.Mapping
	for _, r := range []struct {
		dst *string
		ref string
	}{{&m.BankAccountID, feed.Account}, {&m.ExpenseAccountID, feed.Expense}, {&m.IncomeAccountID, feed.Income}} {
		a, err := ledger.ResolveAccount(l, r.ref)
		if err != nil {
			return err
		}
		*r.dst = a.ID
	}
	bank, _ := ledger.ResolveAccount(l, m.BankAccountID)

	parser := importer.DefaultRegistry(bank.Currency).Get(feed.Format)
	if parser == nil {
		return fmt.Errorf("unknown statement format %q", feed.Format)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	txns, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	updated, res, err := importer.New(p.books.Ledgers()).Import(l, txns, m)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	slog.Debug("parsed statement",
		slog.String("file", filepath.Base(path)),
		slog.Int("rows", len(txns)),
		slog.Int("new", len(res.Entries)),
		slog.Int("skipped", len(res.Skipped)))

	for _, e := range res.Entries {
		fmt.Fprintf(out, "%s  %-40s %s\n", e.Date, e.Description, describeImport(e, m, bank))
	}
	if dryRun {
		fmt.Fprintf(out, "%s: %d new, %d skipped (dry run)\n", filepath.Base(path), len(res.Entries), len(res.Skipped))
		return nil
	}

	if err := p.store.SaveLedger(ctx, updated); err != nil {
		return err
	}
	ids := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		ids = append(ids, e.ID)
	}
	p.record("import", "import_statement", l.ID, strings.Join(ids, ";"),
		fmt.Sprintf("file=%s new=%d skipped=%d", filepath.Base(path), len(res.Entries), len(res.Skipped)))
	fmt.Fprintf(out, "%s: %d new, %d skipped\n", filepath.Base(path), len(res.Entries), len(res.Skipped))
	return nil
}

func describeImport(e model.Entry, m importer.Mapping, bank model.Account) string {
	amount := formatAmount(e.Lines[0].Amount, bank.Currency)
	if e.Lines[0].AccountID == m.ExpenseAccountID {
		return "-" + amount
	}
	return "+" + amount
}
