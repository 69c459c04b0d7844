package model

import (
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

// BankTransaction represents a parsed bank CSV row.
type BankTransaction struct {
	Date        date.Date
	Description string
	Amount      money.Money // negative = money out, positive = money in
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}
