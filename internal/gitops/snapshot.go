package gitops

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// SnapshotDir is the directory under a book root holding CSV snapshots.
const SnapshotDir = "snapshot"

// WriteSnapshot writes every ledger of b as snapshot/<slug>/accounts.csv
// and entries.csv, plus snapshot/rates.csv. Directories of ledgers no longer
// in b are removed. Returns the written paths relative to root.
func WriteSnapshot(root string, b model.Book) ([]string, error) {
	base := filepath.Join(root, SnapshotDir)
	if err := os.RemoveAll(base); err != nil {
		return nil, fmt.Errorf("clearing snapshot: %w", err)
	}

	dirs := ledgerDirs(b.Ledgers)
	var written []string
	for _, l := range b.Ledgers {
		dir := filepath.Join(SnapshotDir, dirs[l.ID])
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}

		acctPath := filepath.Join(dir, "accounts.csv")
		err := writeFile(filepath.Join(root, acctPath), func(f *os.File) error {
			return accounts.WriteAccounts(f, l.Accounts)
		})
		if err != nil {
			return nil, err
		}

		entryPath := filepath.Join(dir, "entries.csv")
		err = writeFile(filepath.Join(root, entryPath), func(f *os.File) error {
			return journal.WriteEntries(f, l.Entries, accounts.NewIndex(l.Accounts))
		})
		if err != nil {
			return nil, err
		}
		written = append(written, acctPath, entryPath)
	}

	ratesPath := filepath.Join(SnapshotDir, "rates.csv")
	err := writeFile(filepath.Join(root, ratesPath), func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write([]string{"date", "from", "to", "rate"}); err != nil {
			return err
		}
		for _, r := range b.ExchangeRates {
			if err := w.Write([]string{r.Date.String(), r.From, r.To, r.Rate.String()}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return nil, err
	}
	return append(written, ratesPath), nil
}

// ledgerDirs names each ledger's snapshot directory by ledger id: its
// slugged name, or its id when the name has no letters or digits. Ledgers
// whose names share a slug get "<slug>-<id>".
func ledgerDirs(ledgers []model.Ledger) map[string]string {
	slugs := make(map[string]string, len(ledgers))
	seen := make(map[string]int, len(ledgers))
	for _, l := range ledgers {
		s := accounts.Slugify(l.Name)
		if s == "" {
			s = l.ID
		}
		slugs[l.ID] = s
		seen[s]++
	}
	for ledgerID, s := range slugs {
		if seen[s] > 1 && s != ledgerID {
			slugs[ledgerID] = s + "-" + ledgerID
		}
	}
	return slugs
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
