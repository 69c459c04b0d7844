package report

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

// Snapshot is the state of a ledger's balances at the end of a day.
type Snapshot struct {
	AsOf        date.Date
	Accounts    []model.Account // the chart with balances as of AsOf
	Assets      int64
	Liabilities int64
	NetWorth    int64
}

// Balance returns the replayed balance of accountID.
func (s Snapshot) Balance(accountID string) int64 {
	a, _ := accounts.ByID(s.Accounts, accountID)
	return a.Balance
}

// Replay posts every entry dated on or before asOf, oldest first, to a
// zero-balance copy of l's chart. Live balances are never read.
func Replay(l model.Ledger, asOf date.Date) ([]model.Account, error) {
	accts := accounts.Clone(l.Accounts)
	for i := range accts {
		accts[i].Balance = 0
	}

	var entries []model.Entry
	for _, e := range l.Entries {
		if !e.Date.After(asOf) {
			entries = append(entries, e)
		}
	}
	slices.SortStableFunc(entries, func(a, b model.Entry) int {
		return a.Date.Compare(b.Date)
	})

	var err error
	for _, e := range entries {
		accts, err = journal.Post(e, accts)
		if err != nil {
			return nil, fmt.Errorf("replaying entry %s: %w", e.ID, err)
		}
	}
	return accts, nil
}

// BalanceSnapshot rebuilds l's balances as of the end of asOf.
func BalanceSnapshot(l model.Ledger, asOf date.Date) (Snapshot, error) {
	accts, err := Replay(l, asOf)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{AsOf: asOf, Accounts: accts}
	for _, a := range accts {
		switch a.Type {
		case model.AccountTypeAssets:
			s.Assets += a.Balance
		case model.AccountTypeLiabilities:
			s.Liabilities += a.Balance
		}
	}
	s.NetWorth = s.Assets - s.Liabilities
	return s, nil
}

// ConvertedBalance is one account's replayed balance in its own and the
// target currency.
type ConvertedBalance struct {
	Account   model.Account
	Native    money.Money
	Converted money.Money // equals Native when no rate resolved
}

// ConvertedSnapshot is a Snapshot expressed in a single currency.
type ConvertedSnapshot struct {
	AsOf        date.Date
	Currency    string
	Balances    []ConvertedBalance
	Assets      int64
	Liabilities int64
	NetWorth    int64
	// Unconverted lists the ids of accounts with no rate to Currency. Their
	// native balance is included in the totals as is.
	Unconverted []string
}

// ConvertedBalanceSnapshot rebuilds l's balances as of asOf and converts
// each account to target at the rates effective on asOf.
func ConvertedBalanceSnapshot(l model.Ledger, asOf date.Date, target string, rates []money.ExchangeRate) (ConvertedSnapshot, error) {
	accts, err := Replay(l, asOf)
	if err != nil {
		return ConvertedSnapshot{}, err
	}

	s := ConvertedSnapshot{AsOf: asOf, Currency: target}
	for _, a := range accts {
		native := money.New(a.Balance, a.Currency)
		converted, err := money.Convert(native, target, rates, asOf)
		if errors.Is(err, money.ErrRateUnavailable) {
			converted = native
			s.Unconverted = append(s.Unconverted, a.ID)
		} else if err != nil {
			return ConvertedSnapshot{}, fmt.Errorf("converting %s: %w", a.Path, err)
		}

		s.Balances = append(s.Balances, ConvertedBalance{Account: a, Native: native, Converted: converted})
		switch a.Type {
		case model.AccountTypeAssets:
			s.Assets += converted.Amount
		case model.AccountTypeLiabilities:
			s.Liabilities += converted.Amount
		}
	}
	s.NetWorth = s.Assets - s.Liabilities
	return s, nil
}
