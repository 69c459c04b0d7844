package ledger

import (
	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Balance returns the own balance of accountID, or 0 if it does not exist.
func Balance(l model.Ledger, accountID string) int64 {
	a, _ := accounts.ByID(l.Accounts, accountID)
	return a.Balance
}

// TotalBalance returns the balance of accountID plus all its descendants,
// matched by path prefix.
func TotalBalance(l model.Ledger, accountID string) int64 {
	a, ok := accounts.ByID(l.Accounts, accountID)
	if !ok {
		return 0
	}
	var sum int64
	for _, other := range l.Accounts {
		if accounts.IsWithin(other.Path, a.Path) {
			sum += other.Balance
		}
	}
	return sum
}

// TypeBalance sums the balances of every account of typ.
func TypeBalance(l model.Ledger, typ model.AccountType) int64 {
	var sum int64
	for _, a := range l.Accounts {
		if a.Type == typ {
			sum += a.Balance
		}
	}
	return sum
}

// NetWorth is assets minus liabilities.
func NetWorth(l model.Ledger) int64 {
	return TypeBalance(l, model.AccountTypeAssets) - TypeBalance(l, model.AccountTypeLiabilities)
}

// Profit is income minus expenses.
func Profit(l model.Ledger) int64 {
	return TypeBalance(l, model.AccountTypeIncome) - TypeBalance(l, model.AccountTypeExpenses)
}

// Equation holds the per-type totals of the accounting equation.
type Equation struct {
	Assets      int64
	Liabilities int64
	Equity      int64
	Income      int64
	Expenses    int64
}

// Left is the debit-normal side: assets + expenses.
func (q Equation) Left() int64 { return q.Assets + q.Expenses }

// Right is the credit-normal side: liabilities + equity + income.
func (q Equation) Right() int64 { return q.Liabilities + q.Equity + q.Income }

// Balanced reports whether both sides are equal.
func (q Equation) Balanced() bool { return q.Left() == q.Right() }

// Add sums two equations.
func (q Equation) Add(o Equation) Equation {
	return Equation{
		Assets:      q.Assets + o.Assets,
		Liabilities: q.Liabilities + o.Liabilities,
		Equity:      q.Equity + o.Equity,
		Income:      q.Income + o.Income,
		Expenses:    q.Expenses + o.Expenses,
	}
}

// VerifyAccountingEquation totals l's balances by type. The result is
// Balanced for every ledger reachable through this package.
func VerifyAccountingEquation(l model.Ledger) Equation {
	return Equation{
		Assets:      TypeBalance(l, model.AccountTypeAssets),
		Liabilities: TypeBalance(l, model.AccountTypeLiabilities),
		Equity:      TypeBalance(l, model.AccountTypeEquity),
		Income:      TypeBalance(l, model.AccountTypeIncome),
		Expenses:    TypeBalance(l, model.AccountTypeExpenses),
	}
}
