package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for journal exports. Amounts are minor units.
const Header = "line_ref,date,account_id,account_path,description,debit,credit,payee,tags,kind,entry_note,line_note"

const (
	numFields    = 12
	tagSep       = ";"
	colLineRef   = 0
	colDate      = 1
	colAcctID    = 2
	colAcctPath  = 3
	colDesc      = 4
	colDebit     = 5
	colCredit    = 6
	colPayee     = 7
	colTags      = 8
	colKind      = 9
	colEntryNote = 10
	colLineNote  = 11
)

// WriteEntries writes entries one row per line. When idx is non-nil the
// account_path column is filled from it.
func WriteEntries(w io.Writer, entries []model.Entry, idx *accounts.Index) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, e := range entries {
		for i := range e.Lines {
			if err := cw.Write(MarshalLine(e, i, idx)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts line i of e to a CSV row.
func MarshalLine(e model.Entry, i int, idx *accounts.Index) []string {
	line := e.Lines[i]
	row := make([]string, numFields)
	row[colLineRef] = id.FormatLineRef(e.ID, i)
	row[colDate] = e.Date.String()
	row[colAcctID] = line.AccountID
	if idx != nil {
		if a, ok := idx.Get(line.AccountID); ok {
			row[colAcctPath] = a.Path
		}
	}
	row[colDesc] = e.Description

	amount := strconv.FormatInt(line.Amount, 10)
	if line.Type == model.LineDebit {
		row[colDebit] = amount
	} else {
		row[colCredit] = amount
	}

	row[colPayee] = e.Payee
	row[colTags] = strings.Join(e.Tags, tagSep)
	row[colKind] = string(e.Kind)
	row[colEntryNote] = e.Note
	row[colLineNote] = line.Note
	return row
}

// ReadEntries reads a journal export back into entries. Rows sharing an
// entry id are grouped in file order; entry fields come from the first row.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.Entry
	pos := make(map[string]int)
	for i, rec := range records[1:] {
		e, line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if p, ok := pos[e.ID]; ok {
			entries[p].Lines = append(entries[p].Lines, line)
			continue
		}
		e.Lines = []model.Line{line}
		pos[e.ID] = len(entries)
		entries = append(entries, e)
	}
	return entries, nil
}

// UnmarshalLine converts a CSV row into its entry header and line.
func UnmarshalLine(record []string) (model.Entry, model.Line, error) {
	if len(record) != numFields {
		return model.Entry{}, model.Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	entryID, _, err := id.ParseLineRef(record[colLineRef])
	if err != nil {
		return model.Entry{}, model.Line{}, err
	}

	d, err := date.Parse(record[colDate])
	if err != nil {
		return model.Entry{}, model.Line{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	line := model.Line{AccountID: record[colAcctID], Note: record[colLineNote]}
	switch {
	case record[colDebit] != "" && record[colCredit] == "":
		line.Type = model.LineDebit
		line.Amount, err = strconv.ParseInt(record[colDebit], 10, 64)
	case record[colCredit] != "" && record[colDebit] == "":
		line.Type = model.LineCredit
		line.Amount, err = strconv.ParseInt(record[colCredit], 10, 64)
	default:
		return model.Entry{}, model.Line{}, fmt.Errorf("line %s must have exactly one of debit or credit", record[colLineRef])
	}
	if err != nil {
		return model.Entry{}, model.Line{}, fmt.Errorf("parsing amount: %w", err)
	}

	var tags []string
	if record[colTags] != "" {
		tags = strings.Split(record[colTags], tagSep)
	}

	e := model.Entry{
		ID:          entryID,
		Date:        d,
		Description: record[colDesc],
		Tags:        tags,
		Payee:       record[colPayee],
		Note:        record[colEntryNote],
		Kind:        model.EntryKind(record[colKind]),
	}
	return e, line, nil
}
