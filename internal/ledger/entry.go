package ledger

import (
	"fmt"
	"slices"

	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// AddEntry posts e and appends it to l.
func (s *Service) AddEntry(l model.Ledger, e model.Entry) (model.Ledger, error) {
	if entryIndex(l, e.ID) >= 0 {
		return model.Ledger{}, fmt.Errorf("adding entry %s: %w", e.ID, ErrDuplicateEntry)
	}
	posted, err := journal.Post(e, l.Accounts)
	if err != nil {
		return model.Ledger{}, fmt.Errorf("adding entry %s: %w", e.ID, err)
	}
	out := clone(l)
	out.Accounts = posted
	out.Entries = append(out.Entries, journal.Clone(e))
	out.UpdatedAt = s.clock.Now()
	return out, nil
}

// RemoveEntry unposts and removes entryID. Opening-balance entries are
// protected.
func (s *Service) RemoveEntry(l model.Ledger, entryID string) (model.Ledger, error) {
	i := entryIndex(l, entryID)
	if i < 0 {
		return model.Ledger{}, fmt.Errorf("removing entry %s: %w", entryID, ErrEntryNotFound)
	}
	e := l.Entries[i]
	if e.IsOpeningBalance() {
		return model.Ledger{}, fmt.Errorf("removing entry %s: %w: opening balance", entryID, ErrEntryProtected)
	}
	out := clone(l)
	out.Accounts = journal.Unpost(e, l.Accounts)
	out.Entries = slices.Delete(out.Entries, i, i+1)
	out.UpdatedAt = s.clock.Now()
	return out, nil
}

// UpdateEntry replaces the entry with e.ID by e, reposting balances. The
// entry's kind and creation time are kept.
func (s *Service) UpdateEntry(l model.Ledger, e model.Entry) (model.Ledger, error) {
	i := entryIndex(l, e.ID)
	if i < 0 {
		return model.Ledger{}, fmt.Errorf("updating entry %s: %w", e.ID, ErrEntryNotFound)
	}
	old := l.Entries[i]
	posted, err := journal.Repost(old, e, l.Accounts)
	if err != nil {
		return model.Ledger{}, fmt.Errorf("updating entry %s: %w", e.ID, err)
	}

	now := s.clock.Now()
	updated := journal.Clone(e)
	updated.Kind = old.Kind
	updated.CreatedAt = old.CreatedAt
	updated.UpdatedAt = now

	out := clone(l)
	out.Accounts = posted
	out.Entries[i] = updated
	out.UpdatedAt = now
	return out, nil
}

// SetOpeningBalance records the starting balance of accountID against the
// equity root. An existing opening-balance entry for the account is replaced.
func (s *Service) SetOpeningBalance(l model.Ledger, accountID string, amount int64, day date.Date) (model.Ledger, model.Entry, error) {
	acct, err := ResolveAccount(l, accountID)
	if err != nil {
		return model.Ledger{}, model.Entry{}, fmt.Errorf("setting opening balance: %w", err)
	}
	equity, ok := RootAccount(l, model.AccountTypeEquity)
	if !ok {
		return model.Ledger{}, model.Entry{}, fmt.Errorf("setting opening balance: no equity root in ledger %s", l.ID)
	}
	if acct.ID == equity.ID {
		return model.Ledger{}, model.Entry{}, fmt.Errorf("setting opening balance: %w: %s", ErrRootAccount, equity.Path)
	}
	if amount == 0 {
		return model.Ledger{}, model.Entry{}, fmt.Errorf("setting opening balance: %w", journal.ErrNonPositiveAmount)
	}

	// A positive amount grows the account on its normal side.
	side := model.LineCredit
	if acct.Type.IsDebitIncrease() {
		side = model.LineDebit
	}
	if amount < 0 {
		side = side.Opposite()
		amount = -amount
	}

	e, err := s.NewEntry(journal.EntryParams{
		Date:        day,
		Description: "Opening balance: " + acct.Name,
		Lines: []model.Line{
			{AccountID: acct.ID, Amount: amount, Type: side},
			{AccountID: equity.ID, Amount: amount, Type: side.Opposite()},
		},
		Kind: model.EntryKindOpeningBalance,
	})
	if err != nil {
		return model.Ledger{}, model.Entry{}, fmt.Errorf("setting opening balance: %w", err)
	}

	for _, existing := range l.Entries {
		if existing.IsOpeningBalance() && len(existing.Lines) > 0 && existing.Lines[0].AccountID == acct.ID {
			e.ID = existing.ID
			out, err := s.UpdateEntry(l, e)
			if err != nil {
				return model.Ledger{}, model.Entry{}, err
			}
			saved, _ := FindEntry(out, e.ID)
			return out, saved, nil
		}
	}
	out, err := s.AddEntry(l, e)
	if err != nil {
		return model.Ledger{}, model.Entry{}, err
	}
	return out, e, nil
}
