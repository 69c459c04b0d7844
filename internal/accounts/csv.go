package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

const (
	numFields   = 9
	colID       = 0
	colName     = 1
	colType     = 2
	colCurrency = 3
	colParent   = 4
	colPath     = 5
	colBalance  = 6
	colArchived = 7
	colNote     = 8
)

var header = []string{"account_id", "name", "type", "currency", "parent_id", "path", "balance", "archived", "note"}

// ReadAccounts reads a chart-of-accounts CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart-of-accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colCurrency] = acct.Currency
	row[colParent] = acct.ParentID
	row[colPath] = acct.Path
	row[colBalance] = strconv.FormatInt(acct.Balance, 10)
	if acct.Archived {
		row[colArchived] = "true"
	}
	row[colNote] = acct.Note
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	typ, err := model.ParseAccountType(record[colType])
	if err != nil {
		return model.Account{}, err
	}

	balance, err := strconv.ParseInt(record[colBalance], 10, 64)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	var archived bool
	if record[colArchived] != "" {
		archived, err = strconv.ParseBool(record[colArchived])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing archived %q: %w", record[colArchived], err)
		}
	}

	return model.Account{
		ID:       record[colID],
		Name:     record[colName],
		Type:     typ,
		Currency: record[colCurrency],
		ParentID: record[colParent],
		Path:     record[colPath],
		Balance:  balance,
		Archived: archived,
		Note:     record[colNote],
	}, nil
}
