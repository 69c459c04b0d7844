package model

import (
	"fmt"
	"time"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAssets      AccountType = "assets"
	AccountTypeLiabilities AccountType = "liabilities"
	AccountTypeEquity      AccountType = "equity"
	AccountTypeIncome      AccountType = "income"
	AccountTypeExpenses    AccountType = "expenses"
)

// AccountTypes lists every account type in chart order.
var AccountTypes = []AccountType{
	AccountTypeAssets,
	AccountTypeLiabilities,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpenses,
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAssets, AccountTypeLiabilities, AccountTypeEquity, AccountTypeIncome, AccountTypeExpenses:
		return true
	default:
		return false
	}
}

// IsDebitIncrease reports whether a debit increases the balance of an
// account of this type. It panics on an unknown type.
func (t AccountType) IsDebitIncrease() bool {
	switch t {
	case AccountTypeAssets, AccountTypeExpenses:
		return true
	case AccountTypeLiabilities, AccountTypeEquity, AccountTypeIncome:
		return false
	default:
		panic(fmt.Sprintf("unknown account type %q", string(t)))
	}
}

// ParseAccountType accepts the canonical names and their singular forms.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "assets", "asset":
		return AccountTypeAssets, nil
	case "liabilities", "liability":
		return AccountTypeLiabilities, nil
	case "equity":
		return AccountTypeEquity, nil
	case "income", "revenue":
		return AccountTypeIncome, nil
	case "expenses", "expense":
		return AccountTypeExpenses, nil
	default:
		return "", fmt.Errorf("unknown account type: %q", s)
	}
}

// Account is a node in a ledger's chart of accounts.
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Currency  string      `json:"currency"`
	ParentID  string      `json:"parent_id,omitempty"` // "" = root
	Path      string      `json:"path"`
	Balance   int64       `json:"balance"` // minor units, changed only by posting
	Icon      string      `json:"icon,omitempty"`
	Note      string      `json:"note,omitempty"`
	Archived  bool        `json:"archived,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IsRoot reports whether a has no parent.
func (a Account) IsRoot() bool { return a.ParentID == "" }
