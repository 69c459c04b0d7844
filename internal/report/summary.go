package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Summary is the income and spending of a date range.
type Summary struct {
	From       date.Date
	To         date.Date
	Income     int64
	Expenses   int64
	Net        int64
	EntryCount int
}

// flows returns the income and expense amounts of e: credits to income
// accounts and debits to expense accounts.
func flows(e model.Entry, idx *accounts.Index) (income, expenses int64) {
	for _, line := range e.Lines {
		a, ok := idx.Get(line.AccountID)
		if !ok {
			continue
		}
		switch {
		case a.Type == model.AccountTypeIncome && line.Type == model.LineCredit:
			income += line.Amount
		case a.Type == model.AccountTypeExpenses && line.Type == model.LineDebit:
			expenses += line.Amount
		}
	}
	return income, expenses
}

// PeriodSummary totals income and expenses of entries dated in [from, to].
func PeriodSummary(l model.Ledger, from, to date.Date) Summary {
	idx := accounts.NewIndex(l.Accounts)
	s := Summary{From: from, To: to}
	for _, e := range l.Entries {
		if !e.Date.Between(from, to) {
			continue
		}
		in, out := flows(e, idx)
		s.Income += in
		s.Expenses += out
		s.EntryCount++
	}
	s.Net = s.Income - s.Expenses
	return s
}

// SeriesPoint is the activity of one bucket.
type SeriesPoint struct {
	Label     string
	Start     date.Date
	End       date.Date
	Income    int64
	Expenses  int64
	NetChange int64
}

// TimeSeries returns one point per bucket of p between from and to,
// ascending. Buckets without entries are included with zero totals.
func TimeSeries(l model.Ledger, from, to date.Date, p Period) []SeriesPoint {
	from, to = bounds(l, from, to)
	if from.IsZero() {
		return nil
	}
	idx := accounts.NewIndex(l.Accounts)

	buckets := Buckets(from, to, p)
	points := make([]SeriesPoint, len(buckets))
	pos := make(map[string]int, len(buckets))
	for i, b := range buckets {
		points[i] = SeriesPoint{Label: b.Label, Start: b.Start, End: b.End}
		pos[b.Label] = i
	}
	for _, e := range l.Entries {
		if !e.Date.Between(from, to) {
			continue
		}
		i := pos[PeriodLabel(e.Date, p)]
		in, out := flows(e, idx)
		points[i].Income += in
		points[i].Expenses += out
	}
	for i := range points {
		points[i].NetChange = points[i].Income - points[i].Expenses
	}
	return points
}

// bounds fills zero range ends from the earliest and latest entry dates.
func bounds(l model.Ledger, from, to date.Date) (date.Date, date.Date) {
	var first, last date.Date
	for _, e := range l.Entries {
		if first.IsZero() || e.Date.Before(first) {
			first = e.Date
		}
		if last.IsZero() || e.Date.After(last) {
			last = e.Date
		}
	}
	if from.IsZero() {
		from = first
	}
	if to.IsZero() {
		to = last
	}
	if from.IsZero() || to.IsZero() || from.After(to) {
		return date.Date{}, date.Date{}
	}
	return from, to
}

// CategoryAmount is the activity of one account within a type.
type CategoryAmount struct {
	Account    model.Account
	Amount     int64
	Percentage decimal.Decimal // share of the type total, 0-100
}

// CategorySummary aggregates the signed activity of each account of typ in
// [from, to], largest first.
func CategorySummary(l model.Ledger, typ model.AccountType, from, to date.Date) []CategoryAmount {
	idx := accounts.NewIndex(l.Accounts)
	amounts := make(map[string]int64)
	var order []string
	for _, e := range l.Entries {
		if !e.Date.Between(from, to) {
			continue
		}
		for _, line := range e.Lines {
			a, ok := idx.Get(line.AccountID)
			if !ok || a.Type != typ {
				continue
			}
			if _, seen := amounts[a.ID]; !seen {
				order = append(order, a.ID)
			}
			amounts[a.ID] += journal.Delta(line, typ)
		}
	}

	var total int64
	for _, v := range amounts {
		total += v
	}

	result := make([]CategoryAmount, 0, len(order))
	for _, accountID := range order {
		a, _ := idx.Get(accountID)
		c := CategoryAmount{Account: a, Amount: amounts[accountID], Percentage: decimal.Zero}
		if total != 0 {
			c.Percentage = decimal.NewFromInt(c.Amount).Mul(decimal.NewFromInt(100)).
				DivRound(decimal.NewFromInt(total), 2)
		}
		result = append(result, c)
	}
	slices.SortStableFunc(result, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Account.Path, b.Account.Path)
	})
	return result
}

// TagAmount is the activity of one tag.
type TagAmount struct {
	Tag    string
	Amount int64
	Count  int
}

// TagSummary totals the debit amount and entry count per tag in [from, to],
// largest first.
func TagSummary(l model.Ledger, from, to date.Date) []TagAmount {
	byTag := make(map[string]*TagAmount)
	var result []*TagAmount
	for _, e := range l.Entries {
		if !e.Date.Between(from, to) {
			continue
		}
		for _, t := range e.Tags {
			ta, ok := byTag[t]
			if !ok {
				ta = &TagAmount{Tag: t}
				byTag[t] = ta
				result = append(result, ta)
			}
			ta.Amount += journal.TotalDebit(e)
			ta.Count++
		}
	}
	out := make([]TagAmount, len(result))
	for i, ta := range result {
		out[i] = *ta
	}
	slices.SortFunc(out, func(a, b TagAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}
