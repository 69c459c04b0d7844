package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRateCommand(opts *rootOptions) *cobra.Command {
	rateCmd := &cobra.Command{
		Use:   "rate",
		Short: "Manage exchange rates",
	}
	rateCmd.AddCommand(newRateSetCommand(opts))
	rateCmd.AddCommand(newRateListCommand(opts))
	return rateCmd
}

func newRateSetCommand(opts *rootOptions) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "set <from> <to> <rate>",
		Short: "Record how many units of <to> one unit of <from> buys",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("parsing rate %q: %w", args[2], err)
			}

			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			day, err := parseDate(on, p.today())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := p.store.LoadBook(ctx)
			if err != nil {
				return fmt.Errorf("loading book: %w", err)
			}
			b, err = p.books.SetExchangeRate(b, args[0], args[1], rate, day)
			if err != nil {
				return err
			}
			if err := p.store.SaveBook(ctx, b); err != nil {
				return err
			}

			details := fmt.Sprintf("%s/%s=%s on %s", args[0], args[1], rate, day)
			p.record("rate set", "set_rate", b.MainLedgerID, "", details)
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", details)
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "date", "", "effective date YYYY-MM-DD (default today)")

	return cmd
}

func newRateListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List exchange rates",
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
			for _, r := range b.ExchangeRates {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s/%s  %s\n", r.Date, r.From, r.To, r.Rate)
			}
			return nil
		},
	}
}
