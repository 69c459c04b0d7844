// Package activitylog keeps an append-only CSV trail of mutations made
// through the command line.
package activitylog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Record is one row in the activity log.
type Record struct {
	Timestamp time.Time
	Command   string // e.g. "entry add"
	Action    string // e.g. "add_entry"
	LedgerID  string
	ObjectID  string // account, entry or ledger id the action touched
	Details   string
}

// Header is the CSV header for activity-log.csv.
const Header = "timestamp,command,action,ledger_id,object_id,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "activity-log.csv"
	colTimestamp = 0
	colCommand   = 1
	colAction    = 2
	colLedgerID  = 3
	colObjectID  = 4
	colDetails   = 5
)

// Path returns the log file path under root.
func Path(root string) string {
	return filepath.Join(root, logDir, logFile)
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colTimestamp] = r.Timestamp.UTC().Format(time.RFC3339)
	row[colCommand] = r.Command
	row[colAction] = r.Action
	row[colLedgerID] = r.LedgerID
	row[colObjectID] = r.ObjectID
	row[colDetails] = r.Details
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (Record, error) {
	if len(row) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	ts, err := time.Parse(time.RFC3339, row[colTimestamp])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", row[colTimestamp], err)
	}

	return Record{
		Timestamp: ts,
		Command:   row[colCommand],
		Action:    row[colAction],
		LedgerID:  row[colLedgerID],
		ObjectID:  row[colObjectID],
		Details:   row[colDetails],
	}, nil
}

// Append writes records to <root>/logs/activity-log.csv, creating the file
// and header if needed.
func Append(root string, records ...Record) error {
	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all records from <root>/logs/activity-log.csv. A missing
// file yields no records.
func Read(root string) ([]Record, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

func readRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	var records []Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
