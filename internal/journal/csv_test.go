package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func TestEntriesRoundTrip(t *testing.T) {
	entries := []model.Entry{
		{
			ID:          "ent_0001",
			Date:        date.MustParse("2024-01-05"),
			Description: "Dinner, with friends",
			Lines: []model.Line{
				{AccountID: "food", Amount: 3000, Type: model.LineDebit, Note: "my share"},
				{AccountID: "cash", Amount: 3000, Type: model.LineCredit},
			},
			Tags:  []string{"social", "weekend"},
			Payee: "Noodle Bar",
			Kind:  model.EntryKindNormal,
		},
		{
			ID:          "ent_0002",
			Date:        date.MustParse("2024-01-06"),
			Description: "Opening balance",
			Lines: []model.Line{
				{AccountID: "cash", Amount: 100, Type: model.LineDebit},
				{AccountID: "equity", Amount: 100, Type: model.LineCredit},
			},
			Kind: model.EntryKindOpeningBalance,
			Note: "carried over",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries, accounts.NewIndex(testAccounts())))
	assert.Contains(t, buf.String(), "ent_0001a")
	assert.Contains(t, buf.String(), "expenses:food")

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestEntriesRoundTrip_ManyLines(t *testing.T) {
	e := model.Entry{
		ID:          "ent_0001",
		Date:        date.MustParse("2024-01-05"),
		Description: "Split bill",
		Kind:        model.EntryKindNormal,
	}
	for i := 0; i < 27; i++ {
		e.Lines = append(e.Lines, model.Line{AccountID: "food", Amount: 100, Type: model.LineDebit})
	}
	e.Lines = append(e.Lines, model.Line{AccountID: "cash", Amount: 2700, Type: model.LineCredit})

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, []model.Entry{e}, accounts.NewIndex(testAccounts())))
	assert.Contains(t, buf.String(), "ent_0001z")
	assert.Contains(t, buf.String(), "ent_0001-27")

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e, got[0])
}

func TestReadEntries_BadRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"both sides", "ent_1a,2024-01-01,cash,,x,1,1,,,,,"},
		{"no side", "ent_1a,2024-01-01,cash,,x,,,,,,,"},
		{"bad date", "ent_1a,01/01/2024,cash,,x,1,,,,,,"},
		{"bad ref", "ent_1,2024-01-01,cash,,x,1,,,,,,"},
		{"bad amount", "ent_1a,2024-01-01,cash,,x,1.5,,,,,,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEntries(strings.NewReader(Header + "\n" + tt.row + "\n"))
			require.Error(t, err)
		})
	}
}
