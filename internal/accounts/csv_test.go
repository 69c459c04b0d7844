package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{ID: "acc_0001", Name: "Assets", Type: model.AccountTypeAssets, Currency: "CNY", Path: "assets"},
		{ID: "acc_0002", Name: "Cash", Type: model.AccountTypeAssets, Currency: "CNY", ParentID: "acc_0001", Path: "assets:cash", Balance: -500, Note: "wallet, pocket"},
		{ID: "acc_0003", Name: "Old Card", Type: model.AccountTypeLiabilities, Currency: "CNY", ParentID: "acc_0009", Path: "liabilities:old-card", Archived: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accounts))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, accounts, got)
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadAccounts_BadRow(t *testing.T) {
	input := strings.Join(header, ",") + "\nacc_1,Cash,assets,CNY,,assets:cash,lots,,\n"
	_, err := ReadAccounts(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	input = strings.Join(header, ",") + "\nacc_1,Cash,gold,CNY,,assets:cash,0,,\n"
	_, err = ReadAccounts(strings.NewReader(input))
	require.Error(t, err)
}

func TestStarterChart(t *testing.T) {
	chart := StarterChart("personal")
	require.NotEmpty(t, chart)
	for _, s := range chart {
		assert.NotEmpty(t, s.Name)
		assert.True(t, s.Type.Valid(), "starter %s has type %q", s.Name, s.Type)
	}
	assert.Empty(t, StarterChart("none"))
	assert.Equal(t, chart, StarterChart("unknown_kind"))
}
