package journal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// MaxTags is the tag count above which ValidateEntry warns.
const MaxTags = 10

// Result collects problems found by a validator. Errors make the subject
// invalid, warnings do not.
type Result struct {
	OK       bool
	Errors   []string
	Warnings []string
}

// Errorf records an error.
func (r *Result) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.OK = false
}

// Warnf records a warning.
func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends the findings of o, each prefixed with prefix.
func (r *Result) Merge(prefix string, o Result) {
	for _, e := range o.Errors {
		r.Errorf("%s%s", prefix, e)
	}
	for _, w := range o.Warnings {
		r.Warnf("%s%s", prefix, w)
	}
}

// Err returns the errors joined into one error, or nil if r is OK.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, "; "))
}

// ValidateEntry checks the structure and balance of e.
func ValidateEntry(e model.Entry) Result {
	r := Result{OK: true}

	if e.ID == "" {
		r.Errorf("entry id is missing")
	}
	if e.Date.IsZero() {
		r.Errorf("entry date is missing or not YYYY-MM-DD")
	}
	if strings.TrimSpace(e.Description) == "" {
		r.Errorf("description is required")
	}
	if len(e.Lines) < 2 {
		r.Errorf("entry has %d lines, needs at least 2", len(e.Lines))
	}
	if debit, credit := TotalDebit(e), TotalCredit(e); debit != credit {
		r.Errorf("debits (%d) != credits (%d)", debit, credit)
	}
	for i, line := range e.Lines {
		r.Merge(fmt.Sprintf("line %d: ", i), ValidateLine(line))
	}
	if len(e.Tags) > MaxTags {
		r.Warnf("entry has %d tags, more than %d", len(e.Tags), MaxTags)
	}
	return r
}

// ValidateLine checks a single entry line.
func ValidateLine(line model.Line) Result {
	r := Result{OK: true}
	if line.AccountID == "" {
		r.Errorf("account id is missing")
	}
	if line.Amount <= 0 {
		r.Errorf("amount %d is not positive", line.Amount)
	}
	if !line.Type.Valid() {
		r.Errorf("unknown line type %q", line.Type)
	}
	return r
}
