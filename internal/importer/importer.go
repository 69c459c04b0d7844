// Package importer turns bank statement CSVs into balanced journal entries.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

// ImportTag is attached to every imported entry.
const ImportTag = "import"

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers reading
// amounts in currency.
func DefaultRegistry(currency string) *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{Currency: currency})
	return r
}

// Mapping names the accounts a statement is booked against. Money out
// debits Expense, money in credits Income, and Bank takes the other side.
type Mapping struct {
	BankAccountID    string
	ExpenseAccountID string
	IncomeAccountID  string
}

// Result reports what an import did.
type Result struct {
	Entries []model.Entry
	Skipped []model.BankTransaction // duplicates and zero amounts
}

// Importer books bank transactions into a ledger.
type Importer struct {
	ledgers *ledger.Service
}

// New creates an Importer.
func New(ledgers *ledger.Service) *Importer {
	return &Importer{ledgers: ledgers}
}

// Import posts each transaction in txns to l as a two-line entry. A
// transaction already present in l, matched by reference or by date, amount
// and description, is skipped. Any failure leaves l unchanged.
func (im *Importer) Import(l model.Ledger, txns []model.BankTransaction, m Mapping) (model.Ledger, Result, error) {
	bank, err := ledger.ResolveAccount(l, m.BankAccountID)
	if err != nil {
		return model.Ledger{}, Result{}, fmt.Errorf("resolving bank account: %w", err)
	}

	seen := make(map[string]bool)
	for _, e := range l.Entries {
		if e.Note != "" {
			seen[e.Note] = true
		}
		if journal.TouchesAccount(e, bank.ID) {
			seen[entryKey(e)] = true
		}
	}

	var res Result
	out := l
	for i, txn := range txns {
		key := txnKey(txn)
		if txn.Amount.IsZero() || seen[txn.Reference] || seen[key] {
			res.Skipped = append(res.Skipped, txn)
			continue
		}
		if txn.Amount.Currency != bank.Currency {
			return model.Ledger{}, Result{}, fmt.Errorf("transaction %d: %w: %s into %s account", i, money.ErrCurrencyMismatch, txn.Amount.Currency, bank.Currency)
		}

		p := journal.SimpleParams{
			Date:        txn.Date,
			Description: txn.Description,
			Amount:      txn.Amount.Amount,
			Tags:        []string{ImportTag},
			Note:        txn.Reference,
		}
		if txn.Amount.IsNegative() {
			p.DebitAccountID, p.CreditAccountID = m.ExpenseAccountID, bank.ID
			p.Amount = -p.Amount
		} else {
			p.DebitAccountID, p.CreditAccountID = bank.ID, m.IncomeAccountID
		}

		e, err := im.ledgers.NewSimpleEntry(out, p)
		if err != nil {
			return model.Ledger{}, Result{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		out, err = im.ledgers.AddEntry(out, e)
		if err != nil {
			return model.Ledger{}, Result{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		res.Entries = append(res.Entries, e)
		seen[txn.Reference] = true
		seen[key] = true
	}
	return out, res, nil
}

func txnKey(txn model.BankTransaction) string {
	amount := txn.Amount.Amount
	if amount < 0 {
		amount = -amount
	}
	return fmt.Sprintf("%s|%d|%s", txn.Date, amount, strings.ToLower(txn.Description))
}

func entryKey(e model.Entry) string {
	return fmt.Sprintf("%s|%d|%s", e.Date, journal.Amount(e), strings.ToLower(e.Description))
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
