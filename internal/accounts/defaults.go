package accounts

import "github.com/cleared-dev/ledgerbook/internal/model"

// RootName returns the display name of the root account for typ.
func RootName(typ model.AccountType) string {
	switch typ {
	case model.AccountTypeAssets:
		return "Assets"
	case model.AccountTypeLiabilities:
		return "Liabilities"
	case model.AccountTypeEquity:
		return "Equity"
	case model.AccountTypeIncome:
		return "Income"
	case model.AccountTypeExpenses:
		return "Expenses"
	default:
		return string(typ)
	}
}

// Starter is an account seeded under a root by StarterChart.
type Starter struct {
	Type model.AccountType
	Name string
	Icon string
}

// StarterChart returns a starter set of accounts for a kind of ledger.
func StarterChart(kind string) []Starter {
	switch kind {
	case "none":
		return nil
	case "travel":
		return travelChart()
	default:
		return personalChart()
	}
}

func personalChart() []Starter {
	return []Starter{
		{Type: model.AccountTypeAssets, Name: "Cash", Icon: "💵"},
		{Type: model.AccountTypeAssets, Name: "Checking"},
		{Type: model.AccountTypeAssets, Name: "Savings"},
		{Type: model.AccountTypeLiabilities, Name: "Credit Card", Icon: "💳"},
		{Type: model.AccountTypeEquity, Name: "Opening Balances"},
		{Type: model.AccountTypeIncome, Name: "Salary"},
		{Type: model.AccountTypeIncome, Name: "Interest"},
		{Type: model.AccountTypeExpenses, Name: "Food", Icon: "🍜"},
		{Type: model.AccountTypeExpenses, Name: "Housing"},
		{Type: model.AccountTypeExpenses, Name: "Transport"},
		{Type: model.AccountTypeExpenses, Name: "Shopping"},
		{Type: model.AccountTypeExpenses, Name: "Health"},
	}
}

func travelChart() []Starter {
	return []Starter{
		{Type: model.AccountTypeAssets, Name: "Cash"},
		{Type: model.AccountTypeLiabilities, Name: "Credit Card"},
		{Type: model.AccountTypeExpenses, Name: "Lodging"},
		{Type: model.AccountTypeExpenses, Name: "Flights"},
		{Type: model.AccountTypeExpenses, Name: "Meals"},
	}
}
