// Package validation checks whether mutations are allowed and whether a
// book satisfies its structural invariants. Findings are reported, never
// returned as errors.
package validation

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/report"
)

// Result collects errors and warnings.
type Result = journal.Result

// CanDeleteAccount reports whether accountID is an unused non-root leaf.
func CanDeleteAccount(l model.Ledger, accountID string) bool {
	return ledger.CheckDelete(l, accountID) == nil
}

// CanArchiveAccount reports whether accountID is an unarchived non-root account.
func CanArchiveAccount(l model.Ledger, accountID string) bool {
	return ledger.CheckArchive(l, accountID) == nil
}

// CanMoveAccount reports whether accountID may be re-parented under newParentID.
func CanMoveAccount(l model.Ledger, accountID, newParentID string) bool {
	return ledger.CheckMove(l, accountID, newParentID) == nil
}

// CanDeleteEntry reports whether e may be removed.
func CanDeleteEntry(e model.Entry) bool {
	return !e.IsOpeningBalance()
}

// ValidateLedger checks the chart, the entries and the balances of l.
func ValidateLedger(l model.Ledger) Result {
	r := Result{OK: true}
	idx := accounts.NewIndex(l.Accounts)

	roots := make(map[model.AccountType]int)
	paths := make(map[string]bool)
	for _, a := range l.Accounts {
		if !a.Type.Valid() {
			r.Errorf("account %s has unknown type %q", a.ID, a.Type)
			continue
		}
		if paths[a.Path] {
			r.Errorf("duplicate account path %s", a.Path)
		}
		paths[a.Path] = true

		if a.IsRoot() {
			roots[a.Type]++
			continue
		}
		parent, ok := idx.Get(a.ParentID)
		if !ok {
			r.Errorf("account %s has missing parent %s", a.Path, a.ParentID)
			continue
		}
		if parent.Type != a.Type {
			r.Errorf("account %s is %s but its parent is %s", a.Path, a.Type, parent.Type)
		}
		if parent.Currency != a.Currency {
			r.Warnf("account %s is in %s but its parent is in %s", a.Path, a.Currency, parent.Currency)
		}
	}
	for _, t := range model.AccountTypes {
		if n := roots[t]; n != 1 {
			r.Errorf("ledger has %d %s root accounts, want 1", n, t)
		}
	}

	for _, e := range l.Entries {
		prefix := fmt.Sprintf("entry %s: ", e.ID)
		r.Merge(prefix, journal.ValidateEntry(e))
		for _, line := range e.Lines {
			if line.AccountID != "" && !idx.Exists(line.AccountID) {
				r.Errorf("%sunknown account %s", prefix, line.AccountID)
			}
		}
	}
	if !r.OK {
		return r
	}

	if eq := ledger.VerifyAccountingEquation(l); !eq.Balanced() {
		r.Errorf("accounting equation fails: assets + expenses = %d, liabilities + equity + income = %d", eq.Left(), eq.Right())
	}
	if replayed, err := report.Replay(l, maxDate(l)); err != nil {
		r.Errorf("replaying entries: %v", err)
	} else {
		for i, a := range replayed {
			if live := l.Accounts[i].Balance; live != a.Balance {
				r.Errorf("account %s has balance %d, entries give %d", a.Path, live, a.Balance)
			}
		}
	}
	return r
}

// ValidateBook validates every ledger of b and the equation summed across them.
func ValidateBook(b model.Book) Result {
	r := Result{OK: true}

	found := false
	var total ledger.Equation
	for _, l := range b.Ledgers {
		if l.ID == b.MainLedgerID {
			found = true
		}
		r.Merge(fmt.Sprintf("ledger %s: ", l.Name), ValidateLedger(l))
		total = total.Add(ledger.VerifyAccountingEquation(l))
	}
	if !found {
		r.Errorf("main ledger %s is missing", b.MainLedgerID)
	}
	if !total.Balanced() {
		r.Errorf("book accounting equation fails: %d != %d", total.Left(), total.Right())
	}
	return r
}

func maxDate(l model.Ledger) date.Date {
	var last date.Date
	for _, e := range l.Entries {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return last
}
