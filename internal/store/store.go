// Package store persists books and ledgers in a bbolt database. Values are
// JSON; amounts stay integer minor units and rates decimal strings.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Bucket names.
const (
	BucketLedgers = "ledgers"
	BucketBooks   = "books"
)

var bookKey = []byte("book")

// Store is the bbolt database wrapper.
type Store struct {
	db      *bolt.DB
	ledgers *ledger.Service
}

// Open opens or creates the database at path and initializes buckets.
// Per-entry operations apply their mutation through ledgers.
func Open(path string, ledgers *ledger.Service) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketLedgers, BucketBooks} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("creating bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.Debug("opened store", slog.String("path", path))
	return &Store{db: db, ledgers: ledgers}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// bookRecord is the stored form of a book; ledgers live in their own bucket.
type bookRecord struct {
	MainLedgerID  string               `json:"main_ledger_id"`
	LedgerIDs     []string             `json:"ledger_ids"`
	ExchangeRates []money.ExchangeRate `json:"exchange_rates"`
	CommonTags    []string             `json:"common_tags"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (s *Store) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

func getLedger(tx *bolt.Tx, ledgerID string) (model.Ledger, error) {
	data := tx.Bucket([]byte(BucketLedgers)).Get([]byte(ledgerID))
	if data == nil {
		return model.Ledger{}, fmt.Errorf("ledger %s: %w", ledgerID, ErrNotFound)
	}
	var l model.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return model.Ledger{}, fmt.Errorf("decoding ledger %s: %w", ledgerID, err)
	}
	return l, nil
}

func putLedger(tx *bolt.Tx, l model.Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding ledger %s: %w", l.ID, err)
	}
	return tx.Bucket([]byte(BucketLedgers)).Put([]byte(l.ID), data)
}

// LoadLedger returns the ledger with the given id.
func (s *Store) LoadLedger(ctx context.Context, ledgerID string) (model.Ledger, error) {
	var l model.Ledger
	err := s.view(ctx, func(tx *bolt.Tx) error {
		var err error
		l, err = getLedger(tx, ledgerID)
		return err
	})
	return l, err
}

// SaveLedger stores l, replacing any previous version.
func (s *Store) SaveLedger(ctx context.Context, l model.Ledger) error {
	err := s.update(ctx, func(tx *bolt.Tx) error {
		return putLedger(tx, l)
	})
	if err != nil {
		return fmt.Errorf("saving ledger %s: %w", l.ID, err)
	}
	slog.Debug("saved ledger", slog.String("ledger_id", l.ID), slog.Int("entries", len(l.Entries)))
	return nil
}

// UpdateLedger loads ledgerID, applies fn and saves the result in a single
// transaction. Nothing is written if fn fails.
func (s *Store) UpdateLedger(ctx context.Context, ledgerID string, fn func(model.Ledger) (model.Ledger, error)) (model.Ledger, error) {
	var out model.Ledger
	err := s.update(ctx, func(tx *bolt.Tx) error {
		l, err := getLedger(tx, ledgerID)
		if err != nil {
			return err
		}
		out, err = fn(l)
		if err != nil {
			return err
		}
		return putLedger(tx, out)
	})
	if err != nil {
		return model.Ledger{}, err
	}
	return out, nil
}

// AppendEntry posts e to ledgerID and stores the result.
func (s *Store) AppendEntry(ctx context.Context, ledgerID string, e model.Entry) (model.Ledger, error) {
	l, err := s.UpdateLedger(ctx, ledgerID, func(l model.Ledger) (model.Ledger, error) {
		return s.ledgers.AddEntry(l, e)
	})
	if err != nil {
		return model.Ledger{}, err
	}
	slog.Debug("appended entry", slog.String("ledger_id", ledgerID), slog.String("entry_id", e.ID))
	return l, nil
}

// RemoveEntry unposts entryID from ledgerID and stores the result.
func (s *Store) RemoveEntry(ctx context.Context, ledgerID, entryID string) (model.Ledger, error) {
	l, err := s.UpdateLedger(ctx, ledgerID, func(l model.Ledger) (model.Ledger, error) {
		return s.ledgers.RemoveEntry(l, entryID)
	})
	if err != nil {
		return model.Ledger{}, err
	}
	slog.Debug("removed entry", slog.String("ledger_id", ledgerID), slog.String("entry_id", entryID))
	return l, nil
}

// UpdateEntry reposts e in ledgerID and stores the result.
func (s *Store) UpdateEntry(ctx context.Context, ledgerID string, e model.Entry) (model.Ledger, error) {
	l, err := s.UpdateLedger(ctx, ledgerID, func(l model.Ledger) (model.Ledger, error) {
		return s.ledgers.UpdateEntry(l, e)
	})
	if err != nil {
		return model.Ledger{}, err
	}
	slog.Debug("updated entry", slog.String("ledger_id", ledgerID), slog.String("entry_id", e.ID))
	return l, nil
}

// LoadBook returns the stored book with all its ledgers.
func (s *Store) LoadBook(ctx context.Context) (model.Book, error) {
	var b model.Book
	err := s.view(ctx, func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketBooks)).Get(bookKey)
		if data == nil {
			return fmt.Errorf("book: %w", ErrNotFound)
		}
		var rec bookRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decoding book: %w", err)
		}
		b = model.Book{
			MainLedgerID:  rec.MainLedgerID,
			ExchangeRates: rec.ExchangeRates,
			CommonTags:    rec.CommonTags,
			UpdatedAt:     rec.UpdatedAt,
		}
		for _, ledgerID := range rec.LedgerIDs {
			l, err := getLedger(tx, ledgerID)
			if err != nil {
				return err
			}
			b.Ledgers = append(b.Ledgers, l)
		}
		return nil
	})
	return b, err
}

// SaveBook stores b and all its ledgers. Stored ledgers no longer in b are
// deleted.
func (s *Store) SaveBook(ctx context.Context, b model.Book) error {
	rec := bookRecord{
		MainLedgerID:  b.MainLedgerID,
		ExchangeRates: b.ExchangeRates,
		CommonTags:    b.CommonTags,
		UpdatedAt:     b.UpdatedAt,
	}
	keep := make(map[string]bool, len(b.Ledgers))
	for _, l := range b.Ledgers {
		rec.LedgerIDs = append(rec.LedgerIDs, l.ID)
		keep[l.ID] = true
	}

	err := s.update(ctx, func(tx *bolt.Tx) error {
		for _, l := range b.Ledgers {
			if err := putLedger(tx, l); err != nil {
				return err
			}
		}

		bucket := tx.Bucket([]byte(BucketLedgers))
		var stale [][]byte
		err := bucket.ForEach(func(k, _ []byte) error {
			if !keep[string(k)] {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding book: %w", err)
		}
		return tx.Bucket([]byte(BucketBooks)).Put(bookKey, data)
	})
	if err != nil {
		return fmt.Errorf("saving book: %w", err)
	}
	slog.Debug("saved book", slog.String("main_ledger_id", b.MainLedgerID), slog.Int("ledgers", len(b.Ledgers)))
	return nil
}
