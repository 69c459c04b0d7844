package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func entry(entryID, day string, amount int64, debit, credit string) model.Entry {
	return model.Entry{
		ID:          entryID,
		Date:        date.MustParse(day),
		Description: "entry " + entryID,
		Lines: []model.Line{
			{AccountID: debit, Amount: amount, Type: model.LineDebit},
			{AccountID: credit, Amount: amount, Type: model.LineCredit},
		},
	}
}

func testLedger() model.Ledger {
	lunch := entry("e1", "2024-03-01", 500, "food", "cash")
	lunch.Payee = "Noodle Bar"
	lunch.Tags = []string{"work"}

	rent := entry("e2", "2024-03-05", 300000, "rent", "bank")
	rent.Note = "March rent"

	coffee := entry("e3", "2024-03-05", 80, "food", "cash")
	coffee.Tags = []string{"treat"}
	coffee.CreatedAt = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	dinner := entry("e4", "2024-03-05", 3000, "food", "card")
	dinner.Payee = "Noodle Bar"
	dinner.CreatedAt = time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)

	return model.Ledger{
		Accounts: []model.Account{
			{ID: "assets", Name: "Assets", Type: model.AccountTypeAssets, Path: "assets"},
			{ID: "bank", Name: "Bank", Type: model.AccountTypeAssets, ParentID: "assets", Path: "assets:bank", Balance: -300000},
			{ID: "cash", Name: "Cash", Type: model.AccountTypeAssets, ParentID: "assets", Path: "assets:cash", Balance: -580},
			{ID: "checking", Name: "Checking", Type: model.AccountTypeAssets, ParentID: "bank", Path: "assets:bank:checking"},
			{ID: "old", Name: "Old", Type: model.AccountTypeAssets, ParentID: "assets", Path: "assets:old", Balance: 10, Archived: true},
			{ID: "card", Name: "Card", Type: model.AccountTypeLiabilities, Path: "liabilities:card", Balance: 3000},
			{ID: "food", Name: "Food", Type: model.AccountTypeExpenses, Path: "expenses:food", Balance: 3580},
			{ID: "rent", Name: "Rent", Type: model.AccountTypeExpenses, Path: "expenses:rent", Balance: 300000},
		},
		Entries: []model.Entry{lunch, rent, coffee, dinner},
	}
}

func ids(entries []model.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestEntries(t *testing.T) {
	l := testLedger()
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all newest first", Filter{}, []string{"e4", "e3", "e2", "e1"}},
		{"date range inclusive", Filter{From: date.MustParse("2024-03-01"), To: date.MustParse("2024-03-01")}, []string{"e1"}},
		{"account", Filter{AccountIDs: []string{"cash", "card"}}, []string{"e4", "e3", "e1"}},
		{"tags overlap", Filter{Tags: []string{"work", "treat"}}, []string{"e3", "e1"}},
		{"payee case-insensitive", Filter{Payee: "noodle"}, []string{"e4", "e1"}},
		{"min amount", Filter{MinAmount: 500}, []string{"e4", "e2", "e1"}},
		{"amount window", Filter{MinAmount: 100, MaxAmount: 3000}, []string{"e4", "e1"}},
		{"keyword in note", Filter{Keyword: "RENT"}, []string{"e2"}},
		{"keyword in payee", Filter{Keyword: "bar"}, []string{"e4", "e1"}},
		{"no match", Filter{Keyword: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Entries(l, tt.filter)))
		})
	}
}

func TestConvenience(t *testing.T) {
	l := testLedger()
	c := clock.At(date.MustParse("2024-03-05"))

	assert.Equal(t, []string{"e4", "e3", "e2"}, ids(Today(l, c)))
	assert.Len(t, ThisMonth(l, c), 4)
	assert.Len(t, ThisYear(l, c), 4)
	assert.Empty(t, ThisYear(l, clock.At(date.MustParse("2025-01-01"))))
	assert.Equal(t, []string{"e2"}, ids(ByAccount(l, "rent")))
	assert.Equal(t, []string{"e1"}, ids(ByTag(l, "work")))
}

func TestSize(t *testing.T) {
	e := entry("e", "2024-01-01", 150, "a", "b")
	assert.Equal(t, int64(150), Size(e))
}

func TestBreadcrumb(t *testing.T) {
	l := testLedger()
	assert.Equal(t, "Assets > Bank > Checking", Breadcrumb(l, "checking", " > "))
	assert.Equal(t, "Assets", Breadcrumb(l, "assets", "/"))
	assert.Equal(t, "", Breadcrumb(l, "nope", "/"))
}

func TestWithDescendants(t *testing.T) {
	l := testLedger()
	var got []string
	for _, a := range WithDescendants(l, "assets") {
		got = append(got, a.ID)
	}
	assert.Equal(t, []string{"assets", "bank", "checking", "cash", "old"}, got)
	assert.Nil(t, WithDescendants(l, "nope"))
}

func TestActiveAccounts(t *testing.T) {
	l := testLedger()
	l.Accounts[2].Balance = 0 // cash, still touched recently

	var got []string
	for _, a := range ActiveAccounts(l, clock.At(date.MustParse("2024-04-01")), 0) {
		got = append(got, a.ID)
	}
	assert.Equal(t, []string{"bank", "cash", "card", "food", "rent"}, got)

	got = nil
	for _, a := range ActiveAccounts(l, clock.At(date.MustParse("2024-04-01")), 7) {
		got = append(got, a.ID)
	}
	assert.Equal(t, []string{"bank", "card", "food", "rent"}, got)
}

func TestTree(t *testing.T) {
	l := testLedger()
	nodes := Tree(l, model.AccountTypeAssets)
	require.Len(t, nodes, 1)

	var lines []string
	Walk(nodes, func(n TreeNode, depth int) {
		lines = append(lines, string(rune('0'+depth))+n.Account.Name)
	})
	assert.Equal(t, []string{"0Assets", "1Bank", "2Checking", "1Cash", "1Old"}, lines)

	assert.Empty(t, Tree(l, model.AccountTypeEquity))
}
