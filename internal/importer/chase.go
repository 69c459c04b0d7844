package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

// ChaseParser parses Chase checking CSV exports. Columns are located by
// their header names, so reordered or extra columns are fine. Amounts are
// read in Currency, USD when empty.
type ChaseParser struct {
	Currency string
}

const (
	chaseDateLayout = "01/02/2006"
	chaseRefPrefix  = 10
)

// chaseColumns maps the header names the parser reads to their positions.
type chaseColumns struct {
	date, desc, amount, typ int
}

func findChaseColumns(header []string) (chaseColumns, error) {
	cols := chaseColumns{date: -1, desc: -1, amount: -1, typ: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "posting date":
			cols.date = i
		case "description":
			cols.desc = i
		case "amount":
			cols.amount = i
		case "type":
			cols.typ = i
		}
	}
	var missing []string
	if cols.date < 0 {
		missing = append(missing, "Posting Date")
	}
	if cols.desc < 0 {
		missing = append(missing, "Description")
	}
	if cols.amount < 0 {
		missing = append(missing, "Amount")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("chase header is missing %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c chaseColumns) width() int {
	return max(c.date, c.desc, c.amount, c.typ) + 1
}

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns its rows in file order.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	// Chase pads some rows with a trailing comma.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chase header: %w", err)
	}
	cols, err := findChaseColumns(header)
	if err != nil {
		return nil, err
	}

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	var txns []model.BankTransaction
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return txns, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading chase CSV: %w", err)
		}
		if len(rec) < cols.width() {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", row, cols.width(), len(rec))
		}
		txn, err := cols.transaction(rec, currency)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		txns = append(txns, txn)
	}
}

func (c chaseColumns) transaction(rec []string, currency string) (model.BankTransaction, error) {
	raw := strings.TrimSpace(rec[c.date])
	posted, err := time.Parse(chaseDateLayout, raw)
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", raw, err)
	}

	amount, err := money.FromString(strings.TrimSpace(rec[c.amount]), currency)
	if err != nil {
		return model.BankTransaction{}, err
	}

	txn := model.BankTransaction{
		Date:        date.Of(posted),
		Description: strings.TrimSpace(rec[c.desc]),
		Amount:      amount,
	}
	if c.typ >= 0 {
		txn.Type = strings.TrimSpace(rec[c.typ])
	}
	txn.Reference = chaseReference(txn)
	return txn, nil
}

// chaseReference identifies a row like chase_20250103_GITHUBPROS_-400: the
// posting day, the first ASCII letters and digits of the description, and
// the amount in minor units.
func chaseReference(txn model.BankTransaction) string {
	var prefix strings.Builder
	for _, r := range txn.Description {
		if prefix.Len() == chaseRefPrefix {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			prefix.WriteRune(r)
		}
	}
	y, m, d := txn.Date.Year(), int(txn.Date.Month()), txn.Date.Day()
	return fmt.Sprintf("chase_%04d%02d%02d_%s_%d", y, m, d, prefix.String(), txn.Amount.Amount)
}
