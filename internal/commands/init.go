package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/activitylog"
	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/gitops"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var name string
	var currency string
	var starter string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, currency, starter, useGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "book name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "USD", "default currency of the main ledger")
	cmd.Flags().StringVar(&starter, "starter", "personal", "starter chart: personal, travel or none")
	cmd.Flags().BoolVar(&useGit, "git", false, "track snapshots of the book in a git repository")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name, currency, starter string, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"logs",
		"exports",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write ledgerbook.yaml.
	cfg := config.Default(name, currency)
	cfg.Book.Starter = starter
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the book with its main ledger and starter chart.
	c := clock.System{}
	books := book.NewService(id.UUID{}, c)
	b := books.New(ledger.Params{Name: name, DefaultCurrency: cfg.Book.DefaultCurrency})
	mainLedger, err := seedChart(books.Ledgers(), book.MainLedger(b), starter)
	if err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}
	b, err = books.UpdateLedger(b, mainLedger)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath(dir), books.Ledgers())
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveBook(ctx, b); err != nil {
		return err
	}

	// Write .gitignore.
	gitignore := "data/\nexports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	err = activitylog.Append(dir, activitylog.Record{
		Timestamp: c.Now(),
		Command:   "init",
		Action:    "create_book",
		LedgerID:  mainLedger.ID,
		ObjectID:  mainLedger.ID,
		Details:   fmt.Sprintf("name=%s currency=%s starter=%s", name, cfg.Book.DefaultCurrency, starter),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Initialized book %q at %s (%d accounts)\n", name, dir, len(mainLedger.Accounts))

	if useGit {
		author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
		if err := writeSnapshot(ctx, out, dir, b, "init: Initialize "+name, author, true); err != nil {
			return fmt.Errorf("initial snapshot: %w", err)
		}
	}
	return nil
}

// seedChart adds the starter accounts of kind under l's roots.
func seedChart(svc *ledger.Service, l model.Ledger, kind string) (model.Ledger, error) {
	for _, s := range accounts.StarterChart(kind) {
		root, ok := ledger.RootAccount(l, s.Type)
		if !ok {
			return model.Ledger{}, fmt.Errorf("no %s root", s.Type)
		}
		var err error
		l, _, err = svc.AddAccount(l, root.ID, accounts.Params{Name: s.Name, Icon: s.Icon})
		if err != nil {
			return model.Ledger{}, err
		}
	}
	return l, nil
}
