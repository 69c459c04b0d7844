package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDebitIncrease(t *testing.T) {
	tests := []struct {
		typ  AccountType
		want bool
	}{
		{AccountTypeAssets, true},
		{AccountTypeExpenses, true},
		{AccountTypeLiabilities, false},
		{AccountTypeEquity, false},
		{AccountTypeIncome, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.IsDebitIncrease(), "IsDebitIncrease(%s)", tt.typ)
	}
	assert.Panics(t, func() { AccountType("bogus").IsDebitIncrease() })
}

func TestParseAccountType(t *testing.T) {
	for _, typ := range AccountTypes {
		got, err := ParseAccountType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
		assert.True(t, got.Valid())
	}
	got, err := ParseAccountType("expense")
	require.NoError(t, err)
	assert.Equal(t, AccountTypeExpenses, got)

	_, err = ParseAccountType("stuff")
	require.Error(t, err)
	assert.False(t, AccountType("stuff").Valid())
}

func TestLineType(t *testing.T) {
	assert.True(t, LineDebit.Valid())
	assert.False(t, LineType("both").Valid())
	assert.Equal(t, LineCredit, LineDebit.Opposite())
	assert.Equal(t, LineDebit, LineCredit.Opposite())
}

func TestParseLedgerType(t *testing.T) {
	got, err := ParseLedgerType("topic")
	require.NoError(t, err)
	assert.Equal(t, LedgerTypeTopic, got)

	_, err = ParseLedgerType("weekly")
	require.Error(t, err)
}

func TestEntryKind(t *testing.T) {
	assert.False(t, Entry{}.IsOpeningBalance())
	assert.True(t, Entry{Kind: EntryKindOpeningBalance}.IsOpeningBalance())
}
