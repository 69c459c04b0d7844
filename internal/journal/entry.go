package journal

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

// EntryParams holds parameters for creating a multi-line entry.
type EntryParams struct {
	Date        date.Date
	Description string
	Lines       []model.Line
	Tags        []string
	Payee       string
	Note        string
	Kind        model.EntryKind
}

// NewEntry builds an entry from p. It checks the structure of the entry but
// not its balance, which is checked when the entry is posted.
func NewEntry(p EntryParams, gen id.Generator, now time.Time) (model.Entry, error) {
	if err := checkShape(p.Date, p.Description, p.Lines); err != nil {
		return model.Entry{}, err
	}

	kind := p.Kind
	if kind == "" {
		kind = model.EntryKindNormal
	}
	e := model.Entry{
		ID:          gen.New(id.KindEntry),
		Date:        p.Date,
		Description: strings.TrimSpace(p.Description),
		Lines:       slices.Clone(p.Lines),
		Payee:       p.Payee,
		Note:        p.Note,
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return AddTags(e, p.Tags...), nil
}

// SimpleParams holds parameters for a two-line entry moving Amount from
// CreditAccountID to DebitAccountID.
type SimpleParams struct {
	Date            date.Date
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          int64
	Tags            []string
	Payee           string
	Note            string
}

// NewSimpleEntry builds a balanced two-line entry. Both accounts must exist
// in accts and share a currency.
func NewSimpleEntry(p SimpleParams, accts []model.Account, gen id.Generator, now time.Time) (model.Entry, error) {
	idx := accounts.NewIndex(accts)
	debit, ok := idx.Get(p.DebitAccountID)
	if !ok {
		return model.Entry{}, fmt.Errorf("%w: %s", ErrAccountNotFound, p.DebitAccountID)
	}
	credit, ok := idx.Get(p.CreditAccountID)
	if !ok {
		return model.Entry{}, fmt.Errorf("%w: %s", ErrAccountNotFound, p.CreditAccountID)
	}
	if debit.Currency != credit.Currency {
		return model.Entry{}, fmt.Errorf("%w: %s is %s, %s is %s",
			money.ErrCurrencyMismatch, debit.Path, debit.Currency, credit.Path, credit.Currency)
	}
	return NewEntry(EntryParams{
		Date:        p.Date,
		Description: p.Description,
		Lines: []model.Line{
			{AccountID: debit.ID, Amount: p.Amount, Type: model.LineDebit},
			{AccountID: credit.ID, Amount: p.Amount, Type: model.LineCredit},
		},
		Tags:  p.Tags,
		Payee: p.Payee,
		Note:  p.Note,
	}, gen, now)
}

// Clone returns a deep copy of e.
func Clone(e model.Entry) model.Entry {
	e.Lines = slices.Clone(e.Lines)
	e.Tags = slices.Clone(e.Tags)
	return e
}

// AddTags returns e with tags added. Blank and duplicate tags are ignored.
func AddTags(e model.Entry, tags ...string) model.Entry {
	e = Clone(e)
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(e.Tags, t) {
			continue
		}
		e.Tags = append(e.Tags, t)
	}
	return e
}

// RemoveTags returns e without the given tags.
func RemoveTags(e model.Entry, tags ...string) model.Entry {
	e = Clone(e)
	e.Tags = slices.DeleteFunc(e.Tags, func(t string) bool {
		return slices.Contains(tags, t)
	})
	return e
}

// AddDebit returns e with a debit line appended.
func AddDebit(e model.Entry, accountID string, amount int64) (model.Entry, error) {
	return addLine(e, model.Line{AccountID: accountID, Amount: amount, Type: model.LineDebit})
}

// AddCredit returns e with a credit line appended.
func AddCredit(e model.Entry, accountID string, amount int64) (model.Entry, error) {
	return addLine(e, model.Line{AccountID: accountID, Amount: amount, Type: model.LineCredit})
}

func addLine(e model.Entry, line model.Line) (model.Entry, error) {
	if line.Amount <= 0 {
		return model.Entry{}, ErrNonPositiveAmount
	}
	e = Clone(e)
	e.Lines = append(e.Lines, line)
	return e, nil
}

// ReplaceLine returns e with line i replaced.
func ReplaceLine(e model.Entry, i int, line model.Line) (model.Entry, error) {
	if i < 0 || i >= len(e.Lines) {
		return model.Entry{}, fmt.Errorf("%w: %d", ErrLineOutOfRange, i)
	}
	if line.Amount <= 0 {
		return model.Entry{}, ErrNonPositiveAmount
	}
	e = Clone(e)
	e.Lines[i] = line
	return e, nil
}

// RemoveLine returns e without line i. An entry never drops below two lines.
func RemoveLine(e model.Entry, i int) (model.Entry, error) {
	if i < 0 || i >= len(e.Lines) {
		return model.Entry{}, fmt.Errorf("%w: %d", ErrLineOutOfRange, i)
	}
	if len(e.Lines) <= 2 {
		return model.Entry{}, ErrTooFewLines
	}
	e = Clone(e)
	e.Lines = slices.Delete(e.Lines, i, i+1)
	return e, nil
}

// UpdateLines returns e with its lines replaced wholesale.
func UpdateLines(e model.Entry, lines []model.Line) (model.Entry, error) {
	if len(lines) < 2 {
		return model.Entry{}, ErrTooFewLines
	}
	for i, line := range lines {
		if line.Amount <= 0 {
			return model.Entry{}, fmt.Errorf("line %d: %w", i, ErrNonPositiveAmount)
		}
	}
	e = Clone(e)
	e.Lines = slices.Clone(lines)
	return e, nil
}

// checkShape reports the first structural problem of an entry made of
// day, description and lines.
func checkShape(day date.Date, description string, lines []model.Line) error {
	switch {
	case day.IsZero():
		return ErrInvalidDate
	case strings.TrimSpace(description) == "":
		return ErrEmptyDescription
	case len(lines) < 2:
		return ErrTooFewLines
	}
	for i, line := range lines {
		if line.Amount <= 0 {
			return fmt.Errorf("line %d: %w", i, ErrNonPositiveAmount)
		}
		if !line.Type.Valid() {
			return fmt.Errorf("line %d: %w %q", i, ErrInvalidLineType, line.Type)
		}
	}
	return nil
}

// TotalDebit sums the debit lines of e.
func TotalDebit(e model.Entry) int64 { return total(e, model.LineDebit) }

// TotalCredit sums the credit lines of e.
func TotalCredit(e model.Entry) int64 { return total(e, model.LineCredit) }

func total(e model.Entry, typ model.LineType) int64 {
	var sum int64
	for _, line := range e.Lines {
		if line.Type == typ {
			sum += line.Amount
		}
	}
	return sum
}

// IsBalanced reports whether debits equal credits.
func IsBalanced(e model.Entry) bool {
	return TotalDebit(e) == TotalCredit(e)
}

// Amount is the size of e, its debit total.
func Amount(e model.Entry) int64 {
	return TotalDebit(e)
}

// TouchesAccount reports whether any line of e posts to accountID.
func TouchesAccount(e model.Entry, accountID string) bool {
	return slices.ContainsFunc(e.Lines, func(l model.Line) bool { return l.AccountID == accountID })
}

// Classification is a coarse reading of what an entry does.
type Classification string

const (
	ClassExpense  Classification = "expense"
	ClassIncome   Classification = "income"
	ClassTransfer Classification = "transfer"
	ClassUnknown  Classification = "unknown"
)

// Classify reports whether e is an expense, income or transfer.
func Classify(e model.Entry, accts []model.Account) Classification {
	idx := accounts.NewIndex(accts)
	typeOf := func(line model.Line) model.AccountType {
		a, _ := idx.Get(line.AccountID)
		return a.Type
	}

	for _, line := range e.Lines {
		if line.Type == model.LineDebit && typeOf(line) == model.AccountTypeExpenses {
			return ClassExpense
		}
	}
	for _, line := range e.Lines {
		if line.Type == model.LineCredit && typeOf(line) == model.AccountTypeIncome {
			return ClassIncome
		}
	}
	if len(e.Lines) == 0 {
		return ClassUnknown
	}
	for _, line := range e.Lines {
		switch typeOf(line) {
		case model.AccountTypeAssets, model.AccountTypeLiabilities:
		default:
			return ClassUnknown
		}
	}
	return ClassTransfer
}

// Currency returns the currency of the account on e's first line, or "".
func Currency(e model.Entry, accts []model.Account) string {
	if len(e.Lines) == 0 {
		return ""
	}
	a, ok := accounts.ByID(accts, e.Lines[0].AccountID)
	if !ok {
		return ""
	}
	return a.Currency
}
