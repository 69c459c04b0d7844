package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

func newService() *Service {
	return NewService(id.NewSequence(), clock.At(date.MustParse("2024-06-01")))
}

func TestNew(t *testing.T) {
	b := newService().New(ledger.Params{Name: "Personal", DefaultCurrency: "CNY"})

	require.Len(t, b.Ledgers, 1)
	main := MainLedger(b)
	assert.Equal(t, b.MainLedgerID, main.ID)
	assert.Equal(t, model.LedgerTypeMain, main.Type)
	assert.Len(t, main.Accounts, 5)
}

func TestLedgers(t *testing.T) {
	s := newService()
	b := s.New(ledger.Params{Name: "Personal", DefaultCurrency: "CNY"})
	b2, trip := s.AddLedger(b, ledger.Params{Name: "Japan Trip", Type: model.LedgerTypeTopic, DefaultCurrency: "JPY"})

	assert.Len(t, b.Ledgers, 1)
	require.Len(t, b2.Ledgers, 2)

	got, err := GetLedger(b2, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "JPY", got.DefaultCurrency)

	got, err = FindLedger(b2, "japan trip")
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)

	_, err = GetLedger(b2, "led_nope")
	require.ErrorIs(t, err, ErrLedgerNotFound)

	trip.Description = "spring"
	b3, err := s.UpdateLedger(b2, trip)
	require.NoError(t, err)
	got, _ = GetLedger(b3, trip.ID)
	assert.Equal(t, "spring", got.Description)

	_, err = s.UpdateLedger(b3, model.Ledger{ID: "led_nope"})
	require.ErrorIs(t, err, ErrLedgerNotFound)

	b4, err := s.ArchiveLedger(b3, trip.ID)
	require.NoError(t, err)
	got, _ = GetLedger(b4, trip.ID)
	assert.True(t, got.Archived)

	b5, err := s.RemoveLedger(b4, trip.ID)
	require.NoError(t, err)
	assert.Len(t, b5.Ledgers, 1)

	_, err = s.RemoveLedger(b5, trip.ID)
	require.ErrorIs(t, err, ErrLedgerNotFound)
}

func TestAddLedger_NeverSecondMain(t *testing.T) {
	s := newService()
	b := s.New(ledger.Params{Name: "Personal", DefaultCurrency: "CNY"})
	_, l := s.AddLedger(b, ledger.Params{Name: "Other", Type: model.LedgerTypeMain, DefaultCurrency: "CNY"})
	assert.NotEqual(t, model.LedgerTypeMain, l.Type)
}

func TestMainLedgerProtected(t *testing.T) {
	s := newService()
	b := s.New(ledger.Params{Name: "Personal", DefaultCurrency: "CNY"})

	_, err := s.RemoveLedger(b, b.MainLedgerID)
	require.ErrorIs(t, err, ErrMainLedger)
	_, err = s.ArchiveLedger(b, b.MainLedgerID)
	require.ErrorIs(t, err, ErrMainLedger)

	assert.Panics(t, func() { MainLedger(model.Book{MainLedgerID: "led_gone"}) })
}

func TestSetExchangeRate(t *testing.T) {
	s := newService()
	b := s.New(ledger.Params{Name: "Personal", DefaultCurrency: "CNY"})
	day := date.MustParse("2024-01-01")

	b, err := s.SetExchangeRate(b, "usd", "cny", decimal.RequireFromString("7.1"), day)
	require.NoError(t, err)
	b, err = s.SetExchangeRate(b, "USD", "CNY", decimal.RequireFromString("7.2"), day)
	require.NoError(t, err)
	b, err = s.SetExchangeRate(b, "USD", "CNY", decimal.RequireFromString("7.3"), day.AddDays(1))
	require.NoError(t, err)

	require.Len(t, b.ExchangeRates, 2)
	rate, ok := money.FindRate(b.ExchangeRates, "USD", "CNY", day)
	require.True(t, ok)
	assert.Equal(t, "7.2", rate.String())

	_, err = s.SetExchangeRate(b, "USD", "USD", decimal.NewFromInt(1), day)
	require.Error(t, err)
	_, err = s.SetExchangeRate(b, "USD", "CNY", decimal.Zero, day)
	require.Error(t, err)
	_, err = s.SetExchangeRate(b, "USD", "CNY", decimal.NewFromInt(7), date.Date{})
	require.Error(t, err)
}

func TestCommonTags(t *testing.T) {
	s := newService()
	b := s.New(ledger.Params{Name: "Personal", DefaultCurrency: "CNY"})

	b = s.AddCommonTags(b, "food", "travel")
	b = s.AddCommonTags(b, "food", " ")
	assert.Equal(t, []string{"food", "travel"}, b.CommonTags)

	b = s.RemoveCommonTags(b, "food")
	assert.Equal(t, []string{"travel"}, b.CommonTags)
}
