package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/query"
)

func newAccountCommand(opts *rootOptions) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	accountCmd.AddCommand(newAccountAddCommand(opts))
	accountCmd.AddCommand(newAccountListCommand(opts))
	accountCmd.AddCommand(newAccountRenameCommand(opts))
	accountCmd.AddCommand(newAccountMoveCommand(opts))
	accountCmd.AddCommand(newAccountArchiveCommand(opts))
	accountCmd.AddCommand(newAccountDeleteCommand(opts))
	accountCmd.AddCommand(newAccountOpeningCommand(opts))
	accountCmd.AddCommand(newAccountExportCommand(opts))
	return accountCmd
}

// changeAccount loads the selected ledger, applies fn and saves it.
func changeAccount(cmd *cobra.Command, opts *rootOptions, command, action string, fn func(*project, model.Ledger) (model.Ledger, string, string, error)) error {
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
	l, objectID, details, err := fn(p, l)
	if err != nil {
		return err
	}
	if err := p.store.SaveLedger(ctx, l); err != nil {
		return err
	}

	p.record(command, action, l.ID, objectID, details)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", command, details)
	return nil
}

func newAccountAddCommand(opts *rootOptions) *cobra.Command {
	var params accounts.Params

	cmd := &cobra.Command{
		Use:   "add <parent-path> <name>",
		Short: "Add an account under a parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccount(cmd, opts, "account add", "add_account", func(p *project, l model.Ledger) (model.Ledger, string, string, error) {
				parent, err := ledger.ResolveAccount(l, args[0])
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				params.Name = args[1]
				l, a, err := p.books.Ledgers().AddAccount(l, parent.ID, params)
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				return l, a.ID, a.Path, nil
			})
		},
	}

	cmd.Flags().StringVar(&params.Icon, "icon", "", "account icon")
	cmd.Flags().StringVar(&params.Note, "note", "", "account note")
	cmd.Flags().StringVar(&params.Currency, "currency", "", "account currency (default: the parent's)")

	return cmd
}

func newAccountListCommand(opts *rootOptions) *cobra.Command {
	var active bool
	var showArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the chart of accounts with balances",
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

			out := cmd.OutOrStdout()
			if active {
				for _, a := range query.ActiveAccounts(l, p.clock, p.cfg.Reports.ActiveDays) {
					fmt.Fprintf(out, "%-40s %14s\n", query.Breadcrumb(l, a.ID, " > "), formatAmount(a.Balance, a.Currency))
				}
				return nil
			}
			printTree(out, l, showArchived)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "only accounts used recently")
	cmd.Flags().BoolVar(&showArchived, "archived", false, "include archived accounts")

	return cmd
}

func printTree(out io.Writer, l model.Ledger, showArchived bool) {
	for _, typ := range model.AccountTypes {
		query.Walk(query.Tree(l, typ), func(n query.TreeNode, depth int) {
			a := n.Account
			if a.Archived && !showArchived {
				return
			}
			label := strings.Repeat("  ", depth) + strings.TrimSpace(a.Icon+" "+a.Name)
			fmt.Fprintf(out, "%-36s %-28s %14s\n", label, a.Path, formatAmount(ledger.TotalBalance(l, a.ID), a.Currency))
		})
	}
}

func newAccountRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> <name>",
		Short: "Rename an account and rebase its sub-accounts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccount(cmd, opts, "account rename", "rename_account", func(p *project, l model.Ledger) (model.Ledger, string, string, error) {
				a, err := ledger.ResolveAccount(l, args[0])
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				name := args[1]
				l, a, err = p.books.Ledgers().UpdateAccount(l, a.ID, ledger.AccountPatch{Name: &name})
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				return l, a.ID, args[0] + " -> " + a.Path, nil
			})
		},
	}
}

func newAccountMoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <path> <new-parent-path>",
		Short: "Move an account under another parent of the same type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccount(cmd, opts, "account move", "move_account", func(p *project, l model.Ledger) (model.Ledger, string, string, error) {
				a, err := ledger.ResolveAccount(l, args[0])
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				parent, err := ledger.ResolveAccount(l, args[1])
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				l, err = p.books.Ledgers().MoveAccount(l, a.ID, parent.ID)
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				moved, _ := accounts.ByID(l.Accounts, a.ID)
				return l, moved.ID, args[0] + " -> " + moved.Path, nil
			})
		},
	}
}

func newAccountArchiveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <path>",
		Short: "Archive an account with a zero balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccount(cmd, opts, "account archive", "archive_account", func(p *project, l model.Ledger) (model.Ledger, string, string, error) {
				a, err := ledger.ResolveAccount(l, args[0])
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				l, err = p.books.Ledgers().ArchiveAccount(l, a.ID)
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				return l, a.ID, a.Path, nil
			})
		},
	}
}

func newAccountDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete an unused leaf account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccount(cmd, opts, "account delete", "delete_account", func(p *project, l model.Ledger) (model.Ledger, string, string, error) {
				a, err := ledger.ResolveAccount(l, args[0])
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				l, err = p.books.Ledgers().DeleteAccount(l, a.ID)
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				return l, a.ID, a.Path, nil
			})
		},
	}
}

func newAccountOpeningCommand(opts *rootOptions) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "opening <path> <amount>",
		Short: "Set an account's opening balance against equity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccount(cmd, opts, "account opening", "set_opening_balance", func(p *project, l model.Ledger) (model.Ledger, string, string, error) {
				a, err := ledger.ResolveAccount(l, args[0])
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				amount, err := parseAmount(args[1], a.Currency)
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				day, err := parseDate(on, p.today())
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				l, e, err := p.books.Ledgers().SetOpeningBalance(l, a.ID, amount, day)
				if err != nil {
					return model.Ledger{}, "", "", err
				}
				return l, e.ID, fmt.Sprintf("%s %s on %s", a.Path, formatAmount(amount, a.Currency), day), nil
			})
		},
	}

	cmd.Flags().StringVar(&on, "date", "", "opening date YYYY-MM-DD (default today)")

	return cmd
}

func newAccountExportCommand(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart of accounts as CSV",
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
			return accounts.WriteAccounts(w, l.Accounts)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}
