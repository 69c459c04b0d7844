// Package journal implements balanced journal entries and the posting
// algorithm that applies them to account balances.
package journal

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Errors returned when an entry cannot be built or posted.
var (
	// ErrNotBalanced means debits and credits differ.
	ErrNotBalanced = errors.New("entry is not balanced")
	// ErrAccountNotFound means a line names an account missing from the chart.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTooFewLines means an entry has fewer than two lines.
	ErrTooFewLines = errors.New("entry needs at least two lines")
	// ErrNonPositiveAmount means a line amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInvalidDate means the entry has no date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrEmptyDescription means the description is blank.
	ErrEmptyDescription = errors.New("description is required")
	// ErrInvalidLineType means a line is neither debit nor credit.
	ErrInvalidLineType = errors.New("unknown line type")
	// ErrMissingEntryID means the entry has no id.
	ErrMissingEntryID = errors.New("entry id is missing")
	// ErrLineOutOfRange means a line index is outside the entry.
	ErrLineOutOfRange = errors.New("line index out of range")
	// ErrUnknownAccountType means an account carries a type outside the five roots.
	ErrUnknownAccountType = errors.New("unknown account type")
)

// Delta returns the signed change a line makes to an account of type typ.
func Delta(line model.Line, typ model.AccountType) int64 {
	debitIncrease := typ.IsDebitIncrease()
	if line.Type == model.LineDebit {
		if debitIncrease {
			return line.Amount
		}
		return -line.Amount
	}
	if debitIncrease {
		return -line.Amount
	}
	return line.Amount
}

// Post applies e to a copy of accts and returns it. Nothing is applied if e
// is malformed, unbalanced or references an account that does not exist.
func Post(e model.Entry, accts []model.Account) ([]model.Account, error) {
	if e.ID == "" {
		return nil, ErrMissingEntryID
	}
	if err := checkShape(e.Date, e.Description, e.Lines); err != nil {
		return nil, err
	}
	if debit, credit := TotalDebit(e), TotalCredit(e); debit != credit {
		return nil, fmt.Errorf("%w: debits (%d) != credits (%d)", ErrNotBalanced, debit, credit)
	}
	idx := accounts.NewIndex(accts)
	for _, line := range e.Lines {
		a, ok := idx.Get(line.AccountID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, line.AccountID)
		}
		if !a.Type.Valid() {
			return nil, fmt.Errorf("%w: %q on account %s", ErrUnknownAccountType, a.Type, a.ID)
		}
	}

	out := accounts.Clone(accts)
	for _, line := range e.Lines {
		i := idx.Position(line.AccountID)
		out[i].Balance += Delta(line, out[i].Type)
	}
	return out, nil
}

// Unpost reverses e on a copy of accts. Lines whose account no longer
// exists are skipped.
func Unpost(e model.Entry, accts []model.Account) []model.Account {
	idx := accounts.NewIndex(accts)
	out := accounts.Clone(accts)
	for _, line := range e.Lines {
		i := idx.Position(line.AccountID)
		if i < 0 || !out[i].Type.Valid() {
			continue
		}
		out[i].Balance -= Delta(line, out[i].Type)
	}
	return out
}

// Repost replaces the effect of old with that of updated. accts is never
// modified, so a failed repost leaves the caller's balances as they were.
func Repost(old, updated model.Entry, accts []model.Account) ([]model.Account, error) {
	return Post(updated, Unpost(old, accts))
}
