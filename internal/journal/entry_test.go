package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNewEntry(t *testing.T) {
	e, err := NewEntry(EntryParams{
		Date:        date.MustParse("2024-03-01"),
		Description: "  Lunch ",
		Lines: []model.Line{
			{AccountID: "food", Amount: 100, Type: model.LineDebit},
			{AccountID: "food", Amount: 50, Type: model.LineDebit},
			{AccountID: "cash", Amount: 150, Type: model.LineCredit},
		},
		Tags: []string{"work", "work", " "},
	}, id.NewSequence(), now)
	require.NoError(t, err)

	assert.Equal(t, "ent_0001", e.ID)
	assert.Equal(t, "Lunch", e.Description)
	assert.Equal(t, []string{"work"}, e.Tags)
	assert.Equal(t, model.EntryKindNormal, e.Kind)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, int64(150), Amount(e))
	assert.True(t, IsBalanced(e))
}

func TestNewEntry_Structural(t *testing.T) {
	good := []model.Line{
		{AccountID: "food", Amount: 100, Type: model.LineDebit},
		{AccountID: "cash", Amount: 100, Type: model.LineCredit},
	}
	tests := []struct {
		name   string
		params EntryParams
		err    error
	}{
		{"no date", EntryParams{Description: "x", Lines: good}, ErrInvalidDate},
		{"no description", EntryParams{Date: date.MustParse("2024-01-01"), Lines: good}, ErrEmptyDescription},
		{"one line", EntryParams{Date: date.MustParse("2024-01-01"), Description: "x", Lines: good[:1]}, ErrTooFewLines},
		{"zero amount", EntryParams{Date: date.MustParse("2024-01-01"), Description: "x", Lines: []model.Line{
			{AccountID: "food", Amount: 0, Type: model.LineDebit},
			{AccountID: "cash", Amount: 0, Type: model.LineCredit},
		}}, ErrNonPositiveAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(tt.params, id.NewSequence(), now)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewSimpleEntry(t *testing.T) {
	accts := testAccounts()
	e, err := NewSimpleEntry(SimpleParams{
		Date:            date.MustParse("2024-01-01"),
		Description:     "Groceries",
		DebitAccountID:  "food",
		CreditAccountID: "cash",
		Amount:          500,
	}, accts, id.NewSequence(), now)
	require.NoError(t, err)
	require.Len(t, e.Lines, 2)
	assert.Equal(t, model.Line{AccountID: "food", Amount: 500, Type: model.LineDebit}, e.Lines[0])
	assert.Equal(t, model.Line{AccountID: "cash", Amount: 500, Type: model.LineCredit}, e.Lines[1])
	assert.Equal(t, "CNY", Currency(e, accts))
}

func TestNewSimpleEntry_CurrencyMismatch(t *testing.T) {
	_, err := NewSimpleEntry(SimpleParams{
		Date:            date.MustParse("2024-01-01"),
		Description:     "FX",
		DebitAccountID:  "wallet",
		CreditAccountID: "cash",
		Amount:          100,
	}, testAccounts(), id.NewSequence(), now)
	require.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestNewSimpleEntry_MissingAccount(t *testing.T) {
	_, err := NewSimpleEntry(SimpleParams{
		Date:            date.MustParse("2024-01-01"),
		Description:     "x",
		DebitAccountID:  "food",
		CreditAccountID: "gone",
		Amount:          100,
	}, testAccounts(), id.NewSequence(), now)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestTags(t *testing.T) {
	e := simple("food", "cash", 1)
	e = AddTags(e, "a", "b")
	e2 := AddTags(e, "a", "c")
	assert.Equal(t, []string{"a", "b"}, e.Tags, "original untouched")
	assert.Equal(t, []string{"a", "b", "c"}, e2.Tags)

	e3 := RemoveTags(e2, "b", "zzz")
	assert.Equal(t, []string{"a", "c"}, e3.Tags)
	assert.Equal(t, []string{"a", "b", "c"}, e2.Tags)
}

func TestLineHelpers(t *testing.T) {
	e := simple("food", "cash", 100)

	e2, err := AddDebit(e, "food", 50)
	require.NoError(t, err)
	assert.Len(t, e.Lines, 2)
	assert.Len(t, e2.Lines, 3)
	assert.False(t, IsBalanced(e2))

	e3, err := AddCredit(e2, "card", 50)
	require.NoError(t, err)
	assert.True(t, IsBalanced(e3))
	assert.Equal(t, int64(150), TotalCredit(e3))

	_, err = AddDebit(e, "food", 0)
	require.ErrorIs(t, err, ErrNonPositiveAmount)

	e4, err := ReplaceLine(e3, 0, model.Line{AccountID: "cash", Amount: 100, Type: model.LineDebit})
	require.NoError(t, err)
	assert.Equal(t, "cash", e4.Lines[0].AccountID)
	assert.Equal(t, "food", e3.Lines[0].AccountID)

	_, err = ReplaceLine(e3, 9, model.Line{Amount: 1})
	require.ErrorIs(t, err, ErrLineOutOfRange)

	e5, err := RemoveLine(e3, 2)
	require.NoError(t, err)
	assert.Len(t, e5.Lines, 3)

	_, err = RemoveLine(e, 0)
	require.ErrorIs(t, err, ErrTooFewLines)

	_, err = UpdateLines(e, e.Lines[:1])
	require.ErrorIs(t, err, ErrTooFewLines)
	_, err = UpdateLines(e, []model.Line{{Amount: 1}, {Amount: -1}})
	require.ErrorIs(t, err, ErrNonPositiveAmount)

	assert.True(t, TouchesAccount(e, "cash"))
	assert.False(t, TouchesAccount(e, "card"))
}

func TestClassify(t *testing.T) {
	accts := testAccounts()
	tests := []struct {
		name  string
		entry model.Entry
		want  Classification
	}{
		{"expense", simple("food", "cash", 1), ClassExpense},
		{"income", simple("cash", "salary", 1), ClassIncome},
		{"transfer", simple("card", "cash", 1), ClassTransfer},
		{"equity", simple("cash", "equity", 1), ClassUnknown},
		{"refund", simple("cash", "food", 1), ClassUnknown},
		{"empty", model.Entry{}, ClassUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.entry, accts), tt.name)
	}
}
