package accounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

var now = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Food", "food"},
		{"Software & SaaS", "software-saas"},
		{"  Credit   Card!! ", "credit-card"},
		{"餐饮 外卖", "餐饮-外卖"},
		{"401(k)", "401-k"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), "Slugify(%q)", tt.name)
	}
}

func TestPath(t *testing.T) {
	assert.Equal(t, "assets", Path("", "Assets"))
	assert.Equal(t, "assets:bank:checking", Path("assets:bank", "Checking"))
	assert.True(t, IsWithin("assets:bank:checking", "assets:bank"))
	assert.True(t, IsWithin("assets:bank", "assets:bank"))
	assert.False(t, IsWithin("assets:bankrupt", "assets:bank"))
}

func TestNewAccount(t *testing.T) {
	gen := id.NewSequence()
	root := NewRoot(model.AccountTypeExpenses, "CNY", gen, now)
	assert.Equal(t, "Expenses", root.Name)
	assert.Equal(t, "expenses", root.Path)
	assert.True(t, root.IsRoot())

	food := NewAccount(Params{Name: "Food", Icon: "🍜"}, root, gen, now)
	assert.Equal(t, "acc_0002", food.ID)
	assert.Equal(t, root.ID, food.ParentID)
	assert.Equal(t, model.AccountTypeExpenses, food.Type)
	assert.Equal(t, "CNY", food.Currency)
	assert.Equal(t, "expenses:food", food.Path)
	assert.Equal(t, int64(0), food.Balance)
	assert.Equal(t, now, food.CreatedAt)
}

func chart() []model.Account {
	return []model.Account{
		{ID: "a", Name: "Assets", Type: model.AccountTypeAssets, Path: "assets"},
		{ID: "b", Name: "Bank", Type: model.AccountTypeAssets, ParentID: "a", Path: "assets:bank"},
		{ID: "c", Name: "Checking", Type: model.AccountTypeAssets, ParentID: "b", Path: "assets:bank:checking"},
		{ID: "d", Name: "Cash", Type: model.AccountTypeAssets, ParentID: "a", Path: "assets:cash"},
		{ID: "e", Name: "Expenses", Type: model.AccountTypeExpenses, Path: "expenses"},
	}
}

func TestLookup(t *testing.T) {
	accts := chart()

	got, ok := ByID(accts, "c")
	require.True(t, ok)
	assert.Equal(t, "Checking", got.Name)

	got, ok = ByPath(accts, "assets:cash")
	require.True(t, ok)
	assert.Equal(t, "d", got.ID)

	_, ok = ByID(accts, "zzz")
	assert.False(t, ok)

	assert.Len(t, ByType(accts, model.AccountTypeAssets), 4)
	assert.Len(t, Roots(accts), 2)
}

func TestChildrenDescendants(t *testing.T) {
	accts := chart()

	kids := Children(accts, "a")
	require.Len(t, kids, 2)
	assert.Equal(t, "b", kids[0].ID)
	assert.Equal(t, "d", kids[1].ID)

	var ids []string
	for _, a := range Descendants(accts, "a") {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"b", "c", "d"}, ids)
	assert.Empty(t, Descendants(accts, "c"))
}

func TestIndex(t *testing.T) {
	idx := NewIndex(chart())

	assert.True(t, idx.Exists("b"))
	assert.False(t, idx.Exists("x"))
	assert.Equal(t, 2, idx.Position("c"))
	assert.Equal(t, -1, idx.Position("x"))
	assert.True(t, idx.HasChildren("b"))
	assert.False(t, idx.HasChildren("c"))
	assert.True(t, idx.IsDescendant("c", "a"))
	assert.False(t, idx.IsDescendant("a", "c"))

	got, ok := idx.GetByPath("assets:bank:checking")
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)

	var chain []string
	for _, a := range idx.Ancestors("c") {
		chain = append(chain, a.Name)
	}
	assert.Equal(t, []string{"Bank", "Assets"}, chain)
}

func TestIndex_Cycle(t *testing.T) {
	accts := []model.Account{
		{ID: "x", ParentID: "y", Path: "x"},
		{ID: "y", ParentID: "x", Path: "y"},
	}
	idx := NewIndex(accts)
	assert.Len(t, idx.Ancestors("x"), 1)
	assert.Len(t, idx.Descendants("x"), 1)
}
