package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/activitylog"
	"github.com/cleared-dev/ledgerbook/internal/book"
	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

// project is an opened book directory.
type project struct {
	root  string
	cfg   *config.Config
	clock clock.Clock
	books *book.Service
	store *store.Store
}

func openProject(dir string) (*project, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("no book at %s (run ledgerbook init): %w", root, err)
	}
	if err := config.ApplyEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := clock.System{}
	books := book.NewService(id.UUID{}, c)
	st, err := store.Open(cfg.DBPath(root), books.Ledgers())
	if err != nil {
		return nil, err
	}
	return &project{root: root, cfg: cfg, clock: c, books: books, store: st}, nil
}

func (p *project) Close() {
	if err := p.store.Close(); err != nil {
		slog.Warn("closing store", slog.Any("error", err))
	}
}

// ledger loads the book and picks the ledger named by ref, the main
// ledger when ref is empty.
func (p *project) ledger(ctx context.Context, ref string) (model.Book, model.Ledger, error) {
	b, err := p.store.LoadBook(ctx)
	if err != nil {
		return model.Book{}, model.Ledger{}, fmt.Errorf("loading book: %w", err)
	}
	if ref == "" {
		return b, book.MainLedger(b), nil
	}
	l, err := book.FindLedger(b, ref)
	if err != nil {
		return model.Book{}, model.Ledger{}, err
	}
	return b, l, nil
}

// record appends to the activity log. Failures are logged, not returned,
// since the mutation is already stored.
func (p *project) record(command, action, ledgerID, objectID, details string) {
	err := activitylog.Append(p.root, activitylog.Record{
		Timestamp: p.clock.Now(),
		Command:   command,
		Action:    action,
		LedgerID:  ledgerID,
		ObjectID:  objectID,
		Details:   details,
	})
	if err != nil {
		slog.Warn("writing activity log", slog.Any("error", err))
	}
}

func (p *project) today() date.Date {
	return clock.Today(p.clock)
}

// parseDate parses s, falling back to def when s is empty.
func parseDate(s string, def date.Date) (date.Date, error) {
	if s == "" {
		return def, nil
	}
	return date.Parse(s)
}

// parseAmount parses a positive main-unit amount into minor units of currency.
func parseAmount(s, currency string) (int64, error) {
	m, err := money.FromString(strings.TrimSpace(s), currency)
	if err != nil {
		return 0, err
	}
	return m.Amount, nil
}

func formatAmount(amount int64, currency string) string {
	return money.New(amount, currency).Format()
}
