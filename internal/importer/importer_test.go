package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/money"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

const chaseChecking = chaseHeader +
	"DEBIT,01/03/2025,GITHUB *PRO SUBSCRIPTION,-4.00,ACH_DEBIT,9996.00,\n" +
	"DEBIT,01/06/2025,AWS EMEA,-23.17,ACH_DEBIT,9972.83,\n" +
	"DEBIT,01/09/2025,STAPLES 0042,-61.40,DEBIT_CARD,9911.43,\n" +
	"CREDIT,01/15/2025,ACME CONSULTING INVOICE 1042,3500.00,ACH_CREDIT,13411.43,\n" +
	"DEBIT,01/20/2025,ZOOM.US,-15.99,ACH_DEBIT,13395.44,\n" +
	"DEBIT,01/22/2025,COMCAST BUSINESS,-129.99,ACH_DEBIT,13265.45,\n"

func parseFixture(t *testing.T) []model.BankTransaction {
	t.Helper()
	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader(chaseChecking))
	require.NoError(t, err)
	return txns
}

func TestChaseParser_Parse(t *testing.T) {
	txns := parseFixture(t)
	require.Len(t, txns, 6)

	// First: GITHUB subscription
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", txns[0].Description)
	assert.Equal(t, money.New(-400, "USD"), txns[0].Amount)
	assert.Equal(t, "ACH_DEBIT", txns[0].Type)
	assert.Equal(t, date.MustParse("2025-01-03"), txns[0].Date)

	// Fourth: ACME income (positive)
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txns[3].Description)
	assert.True(t, txns[3].Amount.IsPositive())
	assert.Equal(t, int64(350000), txns[3].Amount.Amount)

	assert.Equal(t, date.MustParse("2025-01-22"), txns[5].Date)
}

func TestChaseParser_NegativePositiveAmounts(t *testing.T) {
	for _, txn := range parseFixture(t) {
		if txn.Description == "ACME CONSULTING INVOICE 1042" {
			assert.True(t, txn.Amount.IsPositive())
		} else {
			assert.True(t, txn.Amount.IsNegative(), "expected negative for %s", txn.Description)
		}
	}
}

func TestChaseParser_Currency(t *testing.T) {
	p := &ChaseParser{Currency: "JPY"}
	txns, err := p.Parse(strings.NewReader(chaseHeader + "DEBIT,01/03/2025,RAMEN,-980,DEBIT_CARD,0,\n"))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, money.New(-980, "JPY"), txns[0].Amount)
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	txns, err := p.Parse(strings.NewReader(chaseHeader))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestChaseParser_BadDate(t *testing.T) {
	csv := chaseHeader + "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestChaseParser_BadAmount(t *testing.T) {
	csv := chaseHeader + "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestChaseParser_HeaderOrder(t *testing.T) {
	statement := "Description,Amount,Posting Date,Memo\n" +
		"COFFEE,-3.50,02/01/2025,\n" +
		"REFUND,12.00,02/03/2025,store credit,extra\n"
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "COFFEE", txns[0].Description)
	assert.Equal(t, money.New(-350, "USD"), txns[0].Amount)
	assert.Equal(t, date.MustParse("2025-02-01"), txns[0].Date)
	assert.Empty(t, txns[0].Type)
	assert.Equal(t, "chase_20250203_REFUND_1200", txns[1].Reference)
}

func TestChaseParser_MissingColumns(t *testing.T) {
	_, err := (&ChaseParser{}).Parse(strings.NewReader("Details,Posting Date,Type\nDEBIT,01/03/2025,ACH_DEBIT\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Description, Amount")
}

func TestChaseParser_ShortRow(t *testing.T) {
	_, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader + "DEBIT,01/03/2025\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestChaseParser_Format(t *testing.T) {
	p := &ChaseParser{}
	assert.Equal(t, "chase", p.Format())
}

func TestChaseParser_Reference(t *testing.T) {
	txns := parseFixture(t)

	// Reference format: chase_YYYYMMDD_<prefix>_<minor units>
	assert.Equal(t, "chase_20250103_GITHUBPROS_-400", txns[0].Reference)
}

type bookkeeping struct {
	svc     *ledger.Service
	ledger  model.Ledger
	bank    model.Account
	expense model.Account
	income  model.Account
}

func newBookkeeping(t *testing.T) bookkeeping {
	t.Helper()
	svc := ledger.NewService(id.NewSequence(), clock.At(date.MustParse("2025-02-01")))
	l := svc.New(ledger.Params{Name: "Business", DefaultCurrency: "USD"})
	add := func(typ model.AccountType, name string) model.Account {
		r, ok := ledger.RootAccount(l, typ)
		require.True(t, ok)
		var a model.Account
		var err error
		l, a, err = svc.AddAccount(l, r.ID, accounts.Params{Name: name})
		require.NoError(t, err)
		return a
	}
	bk := bookkeeping{svc: svc}
	bk.bank = add(model.AccountTypeAssets, "Checking")
	bk.expense = add(model.AccountTypeExpenses, "Uncategorized")
	bk.income = add(model.AccountTypeIncome, "Sales")
	bk.ledger = l
	return bk
}

func (bk bookkeeping) mapping() Mapping {
	return Mapping{BankAccountID: bk.bank.ID, ExpenseAccountID: bk.expense.ID, IncomeAccountID: bk.income.ID}
}

func TestImport(t *testing.T) {
	bk := newBookkeeping(t)
	im := New(bk.svc)

	l, res, err := im.Import(bk.ledger, parseFixture(t), bk.mapping())
	require.NoError(t, err)
	require.Len(t, res.Entries, 6)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, bk.ledger.Entries, "input ledger untouched")

	assert.Equal(t, int64(-400-2317-6140+350000-1599-12999), ledger.Balance(l, bk.bank.ID))
	assert.Equal(t, int64(400+2317+6140+1599+12999), ledger.Balance(l, bk.expense.ID))
	assert.Equal(t, int64(350000), ledger.Balance(l, bk.income.ID))
	assert.True(t, ledger.VerifyAccountingEquation(l).Balanced())

	first := res.Entries[0]
	assert.Equal(t, "chase_20250103_GITHUBPROS_-400", first.Note)
	assert.Contains(t, first.Tags, ImportTag)
	assert.Equal(t, int64(400), first.Lines[0].Amount)
	assert.Equal(t, bk.expense.ID, first.Lines[0].AccountID)
	assert.Equal(t, model.LineDebit, first.Lines[0].Type)
}

func TestImport_SkipsDuplicates(t *testing.T) {
	bk := newBookkeeping(t)
	im := New(bk.svc)
	txns := parseFixture(t)

	l, _, err := im.Import(bk.ledger, txns, bk.mapping())
	require.NoError(t, err)

	again, res, err := im.Import(l, txns, bk.mapping())
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Len(t, res.Skipped, 6)
	assert.Len(t, again.Entries, 6)
}

func TestImport_MatchesManualEntry(t *testing.T) {
	bk := newBookkeeping(t)
	im := New(bk.svc)

	e, err := bk.svc.NewSimpleEntry(bk.ledger, journal.SimpleParams{
		Date:            date.MustParse("2025-01-03"),
		Description:     "GitHub *Pro Subscription",
		DebitAccountID:  bk.expense.ID,
		CreditAccountID: bk.bank.ID,
		Amount:          400,
	})
	require.NoError(t, err)
	l, err := bk.svc.AddEntry(bk.ledger, e)
	require.NoError(t, err)

	_, res, err := im.Import(l, parseFixture(t)[:1], bk.mapping())
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Len(t, res.Skipped, 1)
}

func TestImport_Errors(t *testing.T) {
	bk := newBookkeeping(t)
	im := New(bk.svc)

	m := bk.mapping()
	m.BankAccountID = "acc_missing"
	_, _, err := im.Import(bk.ledger, parseFixture(t), m)
	assert.Error(t, err)

	jpy := []model.BankTransaction{{
		Date:        date.MustParse("2025-01-03"),
		Description: "ramen",
		Amount:      money.New(-980, "JPY"),
		Reference:   "r1",
	}}
	_, _, err = im.Import(bk.ledger, jpy, bk.mapping())
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	p := r.Get("chase")
	require.NotNil(t, p)
	assert.Equal(t, "chase", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	assert.NotNil(t, r.Get("Chase"))
	assert.NotNil(t, r.Get("CHASE"))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry("USD")
	assert.NotNil(t, r.Get("chase"))
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "bank.csv", files[0].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "bank.csv")
	require.NoError(t, err)

	// Source gone.
	_, err = os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	// Destination exists.
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}

func TestMarkProcessed_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "a.csv"), []byte("data"), 0o644))

	err := MarkProcessed(dir, "a.csv")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "import", "processed"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
