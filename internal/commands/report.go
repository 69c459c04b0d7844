package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/report"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Balances, summaries and trends",
	}
	reportCmd.AddCommand(newReportBalanceCommand(opts))
	reportCmd.AddCommand(newReportSummaryCommand(opts))
	reportCmd.AddCommand(newReportSeriesCommand(opts))
	reportCmd.AddCommand(newReportTrendCommand(opts))
	reportCmd.AddCommand(newReportTagsCommand(opts))
	return reportCmd
}

func newReportBalanceCommand(opts *rootOptions) *cobra.Command {
	var asOf, currency string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance sheet rebuilt from entries as of a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts.dir)
			if err != nil {
				return err
			}
			defer p.Close()

			b, l, err := p.ledger(cmd.Context(), opts.ledger)
			if err != nil {
				return err
			}
			day, err := parseDate(asOf, p.today())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if currency != "" {
				currency = strings.ToUpper(currency)
				snap, err := report.ConvertedBalanceSnapshot(l, day, currency, b.ExchangeRates)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Balance as of %s in %s\n", snap.AsOf, snap.Currency)
				for _, cb := range snap.Balances {
					if cb.Native.IsZero() || !isBalanceSheet(cb.Account.Type) {
						continue
					}
					fmt.Fprintf(out, "  %-32s %14s %14s\n", cb.Account.Path, cb.Native.Format(), cb.Converted.Format())
				}
				fmt.Fprintf(out, "Assets      %14s\n", formatAmount(snap.Assets, currency))
				fmt.Fprintf(out, "Liabilities %14s\n", formatAmount(snap.Liabilities, currency))
				fmt.Fprintf(out, "Net worth   %14s\n", formatAmount(snap.NetWorth, currency))
				if len(snap.Unconverted) > 0 {
					fmt.Fprintf(out, "No rate to %s for %d account(s); native amounts used\n", currency, len(snap.Unconverted))
				}
				return nil
			}

			snap, err := report.BalanceSnapshot(l, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Balance as of %s\n", snap.AsOf)
			for _, a := range snap.Accounts {
				if a.Balance == 0 || !isBalanceSheet(a.Type) {
					continue
				}
				fmt.Fprintf(out, "  %-32s %14s\n", a.Path, formatAmount(a.Balance, a.Currency))
			}
			fmt.Fprintf(out, "Assets      %14s\n", formatAmount(snap.Assets, l.DefaultCurrency))
			fmt.Fprintf(out, "Liabilities %14s\n", formatAmount(snap.Liabilities, l.DefaultCurrency))
			fmt.Fprintf(out, "Net worth   %14s\n", formatAmount(snap.NetWorth, l.DefaultCurrency))
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "snapshot date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&currency, "currency", "", "convert balances to this currency")

	return cmd
}

func isBalanceSheet(t model.AccountType) bool {
	return t == model.AccountTypeAssets || t == model.AccountTypeLiabilities || t == model.AccountTypeEquity
}

func newReportSummaryCommand(opts *rootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, spending and top categories for a date range",
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
			today := p.today()
			start, err := parseDate(from, today.StartOfMonth())
			if err != nil {
				return err
			}
			end, err := parseDate(to, today)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cur := l.DefaultCurrency
			s := report.PeriodSummary(l, start, end)
			fmt.Fprintf(out, "%s to %s, %d entries\n", s.From, s.To, s.EntryCount)
			fmt.Fprintf(out, "Income   %14s\n", formatAmount(s.Income, cur))
			fmt.Fprintf(out, "Expenses %14s\n", formatAmount(s.Expenses, cur))
			fmt.Fprintf(out, "Net      %14s\n", formatAmount(s.Net, cur))

			for _, typ := range []model.AccountType{model.AccountTypeExpenses, model.AccountTypeIncome} {
				cats := report.CategorySummary(l, typ, start, end)
				if len(cats) == 0 {
					continue
				}
				fmt.Fprintf(out, "%s:\n", typ)
				for _, c := range cats {
					fmt.Fprintf(out, "  %-32s %14s %6s%%\n", c.Account.Path, formatAmount(c.Amount, c.Account.Currency), c.Percentage.StringFixed(1))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD (default start of this month)")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD (default today)")

	return cmd
}

// seriesFlags are shared by the bucketed reports.
type seriesFlags struct {
	from, to, period string
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first date YYYY-MM-DD (default first entry)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date YYYY-MM-DD (default last entry)")
	cmd.Flags().StringVar(&f.period, "period", "", "day, week, month, quarter or year (default from config)")
}

func (f *seriesFlags) parse(p *project) (report.Period, error) {
	name := f.period
	if name == "" {
		name = p.cfg.Reports.Period
	}
	return report.ParsePeriod(name)
}

func newReportSeriesCommand(opts *rootOptions) *cobra.Command {
	var flags seriesFlags

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Income and spending per period",
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
			period, err := flags.parse(p)
			if err != nil {
				return err
			}
			from, to, err := flags.dates()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cur := l.DefaultCurrency
			for _, pt := range report.TimeSeries(l, from, to, period) {
				fmt.Fprintf(out, "%-10s %14s %14s %14s\n", pt.Label,
					formatAmount(pt.Income, cur), formatAmount(pt.Expenses, cur), formatAmount(pt.NetChange, cur))
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func (f *seriesFlags) dates() (from, to date.Date, err error) {
	if from, err = parseDate(f.from, date.Date{}); err != nil {
		return date.Date{}, date.Date{}, err
	}
	if to, err = parseDate(f.to, date.Date{}); err != nil {
		return date.Date{}, date.Date{}, err
	}
	return from, to, nil
}

func newReportTrendCommand(opts *rootOptions) *cobra.Command {
	var flags seriesFlags

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Net worth at the end of each period",
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
			period, err := flags.parse(p)
			if err != nil {
				return err
			}
			from, to, err := flags.dates()
			if err != nil {
				return err
			}
			if to.IsZero() {
				to = p.today()
			}

			points, err := report.NetWorthTrend(l, from, to, period)
			if err != nil {
				return err
			}
			for _, pt := range points {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %14s\n", pt.Label, formatAmount(pt.NetWorth, l.DefaultCurrency))
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newReportTagsCommand(opts *rootOptions) *cobra.Command {
	var flags seriesFlags

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Totals per tag",
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
			from, to, err := flags.dates()
			if err != nil {
				return err
			}
			for _, t := range report.TagSummary(l, from, to) {
				fmt.Fprintf(cmd.OutOrStdout(), "#%-20s %4d %14s\n", t.Tag, t.Count, formatAmount(t.Amount, l.DefaultCurrency))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.from, "from", "", "first date YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.to, "to", "", "last date YYYY-MM-DD")

	return cmd
}
