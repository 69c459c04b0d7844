// Package ledger implements copy-on-write mutations and balance queries over
// a single ledger. Every mutation returns a new model.Ledger and leaves its
// input unchanged.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Errors returned by ledger mutations.
var (
	ErrParentNotFound  = errors.New("parent account not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrRootAccount     = errors.New("root accounts cannot be changed this way")
	ErrAccountInUse    = errors.New("account is in use")
	ErrInvalidMove     = errors.New("invalid account move")
	ErrEntryProtected  = errors.New("entry is protected")
	ErrDuplicatePath   = errors.New("account path already exists")
	ErrDuplicateEntry  = errors.New("entry id already exists")
	ErrArchived        = errors.New("account is already archived")
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Service creates and mutates ledgers.
type Service struct {
	ids   id.Generator
	clock clock.Clock
}

// NewService creates a ledger Service.
func NewService(ids id.Generator, c clock.Clock) *Service {
	return &Service{ids: ids, clock: c}
}

// Params holds parameters for creating a ledger.
type Params struct {
	Name            string
	Type            model.LedgerType
	Description     string
	DefaultCurrency string
	Icon            string
}

// New creates a ledger holding one root account per account type.
func (s *Service) New(p Params) model.Ledger {
	now := s.clock.Now()
	typ := p.Type
	if typ == "" {
		typ = model.LedgerTypeDaily
	}
	l := model.Ledger{
		ID:              s.ids.New(id.KindLedger),
		Name:            p.Name,
		Type:            typ,
		Description:     p.Description,
		DefaultCurrency: strings.ToUpper(p.DefaultCurrency),
		Icon:            p.Icon,
		Accounts:        make([]model.Account, 0, len(model.AccountTypes)),
		Entries:         []model.Entry{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, t := range model.AccountTypes {
		l.Accounts = append(l.Accounts, accounts.NewRoot(t, l.DefaultCurrency, s.ids, now))
	}
	return l
}

// NewEntry builds an entry stamped with the service's ids and clock.
func (s *Service) NewEntry(p journal.EntryParams) (model.Entry, error) {
	return journal.NewEntry(p, s.ids, s.clock.Now())
}

// NewSimpleEntry builds a two-line entry between accounts of l.
func (s *Service) NewSimpleEntry(l model.Ledger, p journal.SimpleParams) (model.Entry, error) {
	return journal.NewSimpleEntry(p, l.Accounts, s.ids, s.clock.Now())
}

// clone copies the slices of l that mutations write to.
func clone(l model.Ledger) model.Ledger {
	l.Accounts = accounts.Clone(l.Accounts)
	l.Entries = slices.Clone(l.Entries)
	return l
}

// RootAccount returns the root account of typ.
func RootAccount(l model.Ledger, typ model.AccountType) (model.Account, bool) {
	for _, a := range l.Accounts {
		if a.IsRoot() && a.Type == typ {
			return a, true
		}
	}
	return model.Account{}, false
}

// ResolveAccount finds an account by id or, failing that, by path.
func ResolveAccount(l model.Ledger, ref string) (model.Account, error) {
	if a, ok := accounts.ByID(l.Accounts, ref); ok {
		return a, nil
	}
	if a, ok := accounts.ByPath(l.Accounts, ref); ok {
		return a, nil
	}
	return model.Account{}, fmt.Errorf("%w: %s", journal.ErrAccountNotFound, ref)
}

// FindEntry returns the entry with the given id.
func FindEntry(l model.Ledger, entryID string) (model.Entry, bool) {
	i := entryIndex(l, entryID)
	if i < 0 {
		return model.Entry{}, false
	}
	return l.Entries[i], true
}

func entryIndex(l model.Ledger, entryID string) int {
	return slices.IndexFunc(l.Entries, func(e model.Entry) bool { return e.ID == entryID })
}

// AllTags returns every tag used by an entry of l, sorted.
func AllTags(l model.Ledger) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, e := range l.Entries {
		for _, t := range e.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}
