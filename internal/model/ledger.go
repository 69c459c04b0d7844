package model

import (
	"fmt"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/money"
)

// LedgerType describes a ledger's purpose within a book.
type LedgerType string

const (
	LedgerTypeMain  LedgerType = "main"
	LedgerTypeDaily LedgerType = "daily"
	LedgerTypeTopic LedgerType = "topic"
)

// ParseLedgerType parses a ledger type name.
func ParseLedgerType(s string) (LedgerType, error) {
	switch LedgerType(s) {
	case LedgerTypeMain, LedgerTypeDaily, LedgerTypeTopic:
		return LedgerType(s), nil
	default:
		return "", fmt.Errorf("unknown ledger type: %q", s)
	}
}

// Ledger is one account forest and its entry history.
type Ledger struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            LedgerType `json:"type"`
	Description     string     `json:"description,omitempty"`
	Accounts        []Account  `json:"accounts"`
	Entries         []Entry    `json:"entries"`
	DefaultCurrency string     `json:"default_currency"`
	Icon            string     `json:"icon,omitempty"`
	Archived        bool       `json:"archived,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Book is a multi-ledger envelope with a designated main ledger.
type Book struct {
	Ledgers       []Ledger             `json:"ledgers"`
	MainLedgerID  string               `json:"main_ledger_id"`
	ExchangeRates []money.ExchangeRate `json:"exchange_rates"`
	CommonTags    []string             `json:"common_tags"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
