package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

// AddAccount creates a child of parentID. A currency other than the
// parent's is allowed; ValidateLedger warns about it.
func (s *Service) AddAccount(l model.Ledger, parentID string, p accounts.Params) (model.Ledger, model.Account, error) {
	idx := accounts.NewIndex(l.Accounts)
	parent, ok := idx.Get(parentID)
	if !ok {
		return model.Ledger{}, model.Account{}, fmt.Errorf("adding account %q: %w: %s", p.Name, ErrParentNotFound, parentID)
	}
	if accounts.Slugify(p.Name) == "" {
		return model.Ledger{}, model.Account{}, fmt.Errorf("adding account %q: name has no letters or digits", p.Name)
	}
	if p.Currency != "" && !money.IsKnown(p.Currency) {
		return model.Ledger{}, model.Account{}, fmt.Errorf("adding account %q: %w: %s", p.Name, ErrUnknownCurrency, p.Currency)
	}

	acct := accounts.NewAccount(p, parent, s.ids, s.clock.Now())
	if _, exists := idx.GetByPath(acct.Path); exists {
		return model.Ledger{}, model.Account{}, fmt.Errorf("adding account %q: %w: %s", p.Name, ErrDuplicatePath, acct.Path)
	}

	out := clone(l)
	out.Accounts = append(out.Accounts, acct)
	out.UpdatedAt = acct.CreatedAt
	return out, acct, nil
}

// AccountPatch holds optional account field updates. Nil fields are left as is.
type AccountPatch struct {
	Name *string
	Icon *string
	Note *string
}

// UpdateAccount applies patch to accountID. Renaming recomputes the path of
// the account and every descendant.
func (s *Service) UpdateAccount(l model.Ledger, accountID string, patch AccountPatch) (model.Ledger, model.Account, error) {
	idx := accounts.NewIndex(l.Accounts)
	pos := idx.Position(accountID)
	if pos < 0 {
		return model.Ledger{}, model.Account{}, fmt.Errorf("updating account: %w: %s", journal.ErrAccountNotFound, accountID)
	}

	now := s.clock.Now()
	out := clone(l)
	acct := &out.Accounts[pos]
	if patch.Icon != nil {
		acct.Icon = *patch.Icon
	}
	if patch.Note != nil {
		acct.Note = *patch.Note
	}
	if patch.Name != nil && *patch.Name != acct.Name {
		if accounts.Slugify(*patch.Name) == "" {
			return model.Ledger{}, model.Account{}, fmt.Errorf("renaming account %s: name has no letters or digits", accountID)
		}
		parentPath := ""
		if parent, ok := idx.Get(acct.ParentID); ok {
			parentPath = parent.Path
		}
		newPath := accounts.Path(parentPath, *patch.Name)
		if other, exists := idx.GetByPath(newPath); exists && other.ID != accountID {
			return model.Ledger{}, model.Account{}, fmt.Errorf("renaming account %s: %w: %s", accountID, ErrDuplicatePath, newPath)
		}
		acct.Name = *patch.Name
		rebase(out.Accounts, idx, accountID, acct.Path, newPath, now)
	}
	acct.UpdatedAt = now
	out.UpdatedAt = now
	return out, *acct, nil
}

// rebase moves accountID and its descendants from oldPath to newPath.
func rebase(accts []model.Account, idx *accounts.Index, accountID, oldPath, newPath string, now time.Time) {
	accts[idx.Position(accountID)].Path = newPath
	for _, d := range idx.Descendants(accountID) {
		i := idx.Position(d.ID)
		accts[i].Path = newPath + strings.TrimPrefix(d.Path, oldPath)
		accts[i].UpdatedAt = now
	}
}

// CheckArchive reports why accountID cannot be archived, or nil.
func CheckArchive(l model.Ledger, accountID string) error {
	a, ok := accounts.ByID(l.Accounts, accountID)
	switch {
	case !ok:
		return fmt.Errorf("%w: %s", journal.ErrAccountNotFound, accountID)
	case a.IsRoot():
		return fmt.Errorf("%w: %s", ErrRootAccount, a.Path)
	case a.Archived:
		return fmt.Errorf("%w: %s", ErrArchived, a.Path)
	}
	return nil
}

// CheckDelete reports why accountID cannot be hard-deleted, or nil.
func CheckDelete(l model.Ledger, accountID string) error {
	idx := accounts.NewIndex(l.Accounts)
	a, ok := idx.Get(accountID)
	if !ok {
		return fmt.Errorf("%w: %s", journal.ErrAccountNotFound, accountID)
	}
	if a.IsRoot() {
		return fmt.Errorf("%w: %s", ErrRootAccount, a.Path)
	}
	if idx.HasChildren(accountID) {
		return fmt.Errorf("%w: %s has child accounts", ErrAccountInUse, a.Path)
	}
	for _, e := range l.Entries {
		if journal.TouchesAccount(e, accountID) {
			return fmt.Errorf("%w: %s is referenced by entry %s", ErrAccountInUse, a.Path, e.ID)
		}
	}
	return nil
}

// CheckMove reports why accountID cannot be moved under newParentID, or nil.
func CheckMove(l model.Ledger, accountID, newParentID string) error {
	idx := accounts.NewIndex(l.Accounts)
	a, ok := idx.Get(accountID)
	if !ok {
		return fmt.Errorf("%w: %s", journal.ErrAccountNotFound, accountID)
	}
	parent, ok := idx.Get(newParentID)
	switch {
	case !ok:
		return fmt.Errorf("%w: %s", ErrParentNotFound, newParentID)
	case a.IsRoot():
		return fmt.Errorf("%w: %s", ErrRootAccount, a.Path)
	case accountID == newParentID:
		return fmt.Errorf("%w: %s cannot be its own parent", ErrInvalidMove, a.Path)
	case idx.IsDescendant(newParentID, accountID):
		return fmt.Errorf("%w: %s is below %s", ErrInvalidMove, parent.Path, a.Path)
	case a.Type != parent.Type:
		return fmt.Errorf("%w: type %s != %s", ErrInvalidMove, a.Type, parent.Type)
	case a.Currency != parent.Currency:
		return fmt.Errorf("%w: currency %s != %s", ErrInvalidMove, a.Currency, parent.Currency)
	}
	return nil
}

// ArchiveAccount marks accountID archived.
func (s *Service) ArchiveAccount(l model.Ledger, accountID string) (model.Ledger, error) {
	if err := CheckArchive(l, accountID); err != nil {
		return model.Ledger{}, fmt.Errorf("archiving account: %w", err)
	}
	now := s.clock.Now()
	out := clone(l)
	i := accounts.NewIndex(out.Accounts).Position(accountID)
	out.Accounts[i].Archived = true
	out.Accounts[i].UpdatedAt = now
	out.UpdatedAt = now
	return out, nil
}

// DeleteAccount removes an unused leaf account.
func (s *Service) DeleteAccount(l model.Ledger, accountID string) (model.Ledger, error) {
	if err := CheckDelete(l, accountID); err != nil {
		return model.Ledger{}, fmt.Errorf("deleting account: %w", err)
	}
	out := clone(l)
	kept := out.Accounts[:0]
	for _, a := range out.Accounts {
		if a.ID != accountID {
			kept = append(kept, a)
		}
	}
	out.Accounts = kept
	out.UpdatedAt = s.clock.Now()
	return out, nil
}

// MoveAccount re-parents accountID under newParentID, recomputing paths.
func (s *Service) MoveAccount(l model.Ledger, accountID, newParentID string) (model.Ledger, error) {
	if err := CheckMove(l, accountID, newParentID); err != nil {
		return model.Ledger{}, fmt.Errorf("moving account: %w", err)
	}
	idx := accounts.NewIndex(l.Accounts)
	a, _ := idx.Get(accountID)
	parent, _ := idx.Get(newParentID)
	newPath := accounts.Path(parent.Path, a.Name)
	if other, exists := idx.GetByPath(newPath); exists && other.ID != accountID {
		return model.Ledger{}, fmt.Errorf("moving account: %w: %s", ErrDuplicatePath, newPath)
	}

	now := s.clock.Now()
	out := clone(l)
	i := idx.Position(accountID)
	out.Accounts[i].ParentID = newParentID
	out.Accounts[i].UpdatedAt = now
	rebase(out.Accounts, idx, accountID, a.Path, newPath, now)
	out.UpdatedAt = now
	return out, nil
}
