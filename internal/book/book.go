// Package book manages a set of ledgers with a designated main ledger,
// shared exchange rates and a common tag vocabulary.
package book

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

var (
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrMainLedger     = errors.New("main ledger cannot be removed or archived")
)

// Service creates and mutates books.
type Service struct {
	ledgers *ledger.Service
	clock   clock.Clock
}

// NewService creates a book Service.
func NewService(ids id.Generator, c clock.Clock) *Service {
	return &Service{ledgers: ledger.NewService(ids, c), clock: c}
}

// Ledgers returns the ledger service used for new ledgers.
func (s *Service) Ledgers() *ledger.Service {
	return s.ledgers
}

// New creates a book with a single main ledger.
func (s *Service) New(p ledger.Params) model.Book {
	p.Type = model.LedgerTypeMain
	main := s.ledgers.New(p)
	return model.Book{
		Ledgers:       []model.Ledger{main},
		MainLedgerID:  main.ID,
		ExchangeRates: []money.ExchangeRate{},
		CommonTags:    []string{},
		UpdatedAt:     main.CreatedAt,
	}
}

func clone(b model.Book) model.Book {
	b.Ledgers = slices.Clone(b.Ledgers)
	b.ExchangeRates = slices.Clone(b.ExchangeRates)
	b.CommonTags = slices.Clone(b.CommonTags)
	return b
}

func ledgerIndex(b model.Book, ledgerID string) int {
	return slices.IndexFunc(b.Ledgers, func(l model.Ledger) bool { return l.ID == ledgerID })
}

// GetLedger returns the ledger with the given id.
func GetLedger(b model.Book, ledgerID string) (model.Ledger, error) {
	i := ledgerIndex(b, ledgerID)
	if i < 0 {
		return model.Ledger{}, fmt.Errorf("%w: %s", ErrLedgerNotFound, ledgerID)
	}
	return b.Ledgers[i], nil
}

// FindLedger returns a ledger by id or, failing that, by name.
func FindLedger(b model.Book, ref string) (model.Ledger, error) {
	if l, err := GetLedger(b, ref); err == nil {
		return l, nil
	}
	for _, l := range b.Ledgers {
		if strings.EqualFold(l.Name, ref) {
			return l, nil
		}
	}
	return model.Ledger{}, fmt.Errorf("%w: %s", ErrLedgerNotFound, ref)
}

// MainLedger returns the designated main ledger. It panics if the book has
// lost it, which no function in this package allows.
func MainLedger(b model.Book) model.Ledger {
	l, err := GetLedger(b, b.MainLedgerID)
	if err != nil {
		panic(fmt.Sprintf("book has no main ledger: %v", err))
	}
	return l
}

// AddLedger creates a ledger from p and adds it to b.
func (s *Service) AddLedger(b model.Book, p ledger.Params) (model.Book, model.Ledger) {
	if p.Type == model.LedgerTypeMain {
		p.Type = model.LedgerTypeTopic
	}
	l := s.ledgers.New(p)
	out := clone(b)
	out.Ledgers = append(out.Ledgers, l)
	out.UpdatedAt = l.CreatedAt
	return out, l
}

// UpdateLedger replaces the ledger with l.ID by l.
func (s *Service) UpdateLedger(b model.Book, l model.Ledger) (model.Book, error) {
	i := ledgerIndex(b, l.ID)
	if i < 0 {
		return model.Book{}, fmt.Errorf("updating ledger: %w: %s", ErrLedgerNotFound, l.ID)
	}
	out := clone(b)
	out.Ledgers[i] = l
	out.UpdatedAt = s.clock.Now()
	return out, nil
}

// RemoveLedger removes a ledger other than the main one.
func (s *Service) RemoveLedger(b model.Book, ledgerID string) (model.Book, error) {
	if ledgerID == b.MainLedgerID {
		return model.Book{}, fmt.Errorf("removing ledger %s: %w", ledgerID, ErrMainLedger)
	}
	i := ledgerIndex(b, ledgerID)
	if i < 0 {
		return model.Book{}, fmt.Errorf("removing ledger: %w: %s", ErrLedgerNotFound, ledgerID)
	}
	out := clone(b)
	out.Ledgers = slices.Delete(out.Ledgers, i, i+1)
	out.UpdatedAt = s.clock.Now()
	return out, nil
}

// ArchiveLedger marks a ledger other than the main one archived.
func (s *Service) ArchiveLedger(b model.Book, ledgerID string) (model.Book, error) {
	if ledgerID == b.MainLedgerID {
		return model.Book{}, fmt.Errorf("archiving ledger %s: %w", ledgerID, ErrMainLedger)
	}
	i := ledgerIndex(b, ledgerID)
	if i < 0 {
		return model.Book{}, fmt.Errorf("archiving ledger: %w: %s", ErrLedgerNotFound, ledgerID)
	}
	now := s.clock.Now()
	out := clone(b)
	out.Ledgers[i].Archived = true
	out.Ledgers[i].UpdatedAt = now
	out.UpdatedAt = now
	return out, nil
}

// SetExchangeRate records a rate, replacing any rate for the same pair and day.
func (s *Service) SetExchangeRate(b model.Book, from, to string, rate decimal.Decimal, day date.Date) (model.Book, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	switch {
	case from == to:
		return model.Book{}, fmt.Errorf("setting exchange rate: %s to itself", from)
	case !rate.IsPositive():
		return model.Book{}, fmt.Errorf("setting exchange rate %s/%s: rate %s is not positive", from, to, rate)
	case day.IsZero():
		return model.Book{}, fmt.Errorf("setting exchange rate %s/%s: date is required", from, to)
	}
	out := clone(b)
	out.ExchangeRates = money.UpsertRate(b.ExchangeRates, money.ExchangeRate{From: from, To: to, Rate: rate, Date: day})
	out.UpdatedAt = s.clock.Now()
	return out, nil
}

// AddCommonTags adds tags to the shared vocabulary, skipping duplicates.
func (s *Service) AddCommonTags(b model.Book, tags ...string) model.Book {
	out := clone(b)
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out.CommonTags, t) {
			out.CommonTags = append(out.CommonTags, t)
		}
	}
	out.UpdatedAt = s.clock.Now()
	return out
}

// RemoveCommonTags removes tags from the shared vocabulary.
func (s *Service) RemoveCommonTags(b model.Book, tags ...string) model.Book {
	out := clone(b)
	out.CommonTags = slices.DeleteFunc(out.CommonTags, func(t string) bool {
		return slices.Contains(tags, t)
	})
	out.UpdatedAt = s.clock.Now()
	return out
}
