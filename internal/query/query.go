// Package query filters the entries and accounts of a ledger. All functions
// are read-only.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Filter selects entries. Zero-valued fields do not filter.
type Filter struct {
	From       date.Date
	To         date.Date
	AccountIDs []string
	Tags       []string
	Payee      string
	MinAmount  int64
	MaxAmount  int64
	Keyword    string
}

// Match reports whether e passes f.
func (f Filter) Match(e model.Entry) bool {
	if !e.Date.Between(f.From, f.To) {
		return false
	}
	if len(f.AccountIDs) > 0 && !slices.ContainsFunc(e.Lines, func(l model.Line) bool {
		return slices.Contains(f.AccountIDs, l.AccountID)
	}) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(e.Tags, func(t string) bool {
		return slices.Contains(f.Tags, t)
	}) {
		return false
	}
	if f.Payee != "" && !containsFold(e.Payee, f.Payee) {
		return false
	}
	if f.MinAmount > 0 || f.MaxAmount > 0 {
		amount := Size(e)
		if f.MinAmount > 0 && amount < f.MinAmount {
			return false
		}
		if f.MaxAmount > 0 && amount > f.MaxAmount {
			return false
		}
	}
	if f.Keyword != "" && !containsFold(e.Description, f.Keyword) &&
		!containsFold(e.Note, f.Keyword) && !containsFold(e.Payee, f.Keyword) {
		return false
	}
	return true
}

// Size is half the sum of every line amount, which equals the debit total
// of a balanced entry.
func Size(e model.Entry) int64 {
	var sum int64
	for _, l := range e.Lines {
		sum += l.Amount
	}
	return sum / 2
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Entries returns the entries of l matching f, newest first.
func Entries(l model.Ledger, f Filter) []model.Entry {
	var result []model.Entry
	for _, e := range l.Entries {
		if f.Match(e) {
			result = append(result, e)
		}
	}
	slices.SortStableFunc(result, func(a, b model.Entry) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result
}

// Today returns the entries dated today.
func Today(l model.Ledger, c clock.Clock) []model.Entry {
	today := clock.Today(c)
	return Entries(l, Filter{From: today, To: today})
}

// ThisMonth returns the entries dated in the current month.
func ThisMonth(l model.Ledger, c clock.Clock) []model.Entry {
	today := clock.Today(c)
	return Entries(l, Filter{From: today.StartOfMonth(), To: today.EndOfMonth()})
}

// ThisYear returns the entries dated in the current year.
func ThisYear(l model.Ledger, c clock.Clock) []model.Entry {
	today := clock.Today(c)
	return Entries(l, Filter{
		From: date.New(today.Year(), 1, 1),
		To:   date.New(today.Year(), 12, 31),
	})
}

// ByAccount returns the entries with a line on accountID.
func ByAccount(l model.Ledger, accountID string) []model.Entry {
	return Entries(l, Filter{AccountIDs: []string{accountID}})
}

// ByTag returns the entries tagged tag.
func ByTag(l model.Ledger, tag string) []model.Entry {
	return Entries(l, Filter{Tags: []string{tag}})
}

func byName(a, b model.Account) int {
	return cmp.Compare(a.Name, b.Name)
}
