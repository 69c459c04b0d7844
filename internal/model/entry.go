package model

import (
	"time"

	"github.com/cleared-dev/ledgerbook/internal/date"
)

// LineType is the side of a journal line.
type LineType string

const (
	LineDebit  LineType = "debit"
	LineCredit LineType = "credit"
)

// Valid reports whether t is debit or credit.
func (t LineType) Valid() bool {
	return t == LineDebit || t == LineCredit
}

// Opposite returns the other side.
func (t LineType) Opposite() LineType {
	if t == LineDebit {
		return LineCredit
	}
	return LineDebit
}

// EntryKind distinguishes entries that need special handling.
type EntryKind string

const (
	EntryKindNormal         EntryKind = "normal"
	EntryKindOpeningBalance EntryKind = "opening_balance"
)

// Line is one side of a journal entry against a single account.
type Line struct {
	AccountID string   `json:"account_id"`
	Amount    int64    `json:"amount"` // minor units, > 0
	Type      LineType `json:"type"`
	Note      string   `json:"note,omitempty"`
}

// Entry is an atomic, balanced, multi-line transaction.
type Entry struct {
	ID          string    `json:"id"`
	Date        date.Date `json:"date"`
	Description string    `json:"description"`
	Lines       []Line    `json:"lines"`
	Tags        []string  `json:"tags,omitempty"`
	Payee       string    `json:"payee,omitempty"`
	Note        string    `json:"note,omitempty"`
	Kind        EntryKind `json:"kind,omitempty"` // "" = normal
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOpeningBalance reports whether e seeds an account's starting balance.
func (e Entry) IsOpeningBalance() bool { return e.Kind == EntryKindOpeningBalance }
