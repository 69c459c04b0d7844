package accounts

import "github.com/cleared-dev/ledgerbook/internal/model"

// Index provides constant-time lookup and traversal over a chart of accounts.
// It reads the slice it was built from and must be rebuilt after the slice
// changes.
type Index struct {
	accounts []model.Account
	byID     map[string]int
	byPath   map[string]int
	children map[string][]int
}

// NewIndex builds an Index over accounts.
func NewIndex(accounts []model.Account) *Index {
	idx := &Index{
		accounts: accounts,
		byID:     make(map[string]int, len(accounts)),
		byPath:   make(map[string]int, len(accounts)),
		children: make(map[string][]int),
	}
	for i, a := range accounts {
		idx.byID[a.ID] = i
		idx.byPath[a.Path] = i
		if a.ParentID != "" {
			idx.children[a.ParentID] = append(idx.children[a.ParentID], i)
		}
	}
	return idx
}

// All returns all accounts.
func (x *Index) All() []model.Account {
	return x.accounts
}

// Get returns an account by ID.
func (x *Index) Get(accountID string) (model.Account, bool) {
	i, ok := x.byID[accountID]
	if !ok {
		return model.Account{}, false
	}
	return x.accounts[i], true
}

// Exists reports whether an account ID exists.
func (x *Index) Exists(accountID string) bool {
	_, ok := x.byID[accountID]
	return ok
}

// Position returns the slice position of accountID, or -1.
func (x *Index) Position(accountID string) int {
	if i, ok := x.byID[accountID]; ok {
		return i
	}
	return -1
}

// GetByPath returns an account by path.
func (x *Index) GetByPath(path string) (model.Account, bool) {
	i, ok := x.byPath[path]
	if !ok {
		return model.Account{}, false
	}
	return x.accounts[i], true
}

// HasChildren reports whether any account names accountID as parent.
func (x *Index) HasChildren(accountID string) bool {
	return len(x.children[accountID]) > 0
}

// Children returns the direct children of accountID in chart order.
func (x *Index) Children(accountID string) []model.Account {
	var result []model.Account
	for _, i := range x.children[accountID] {
		result = append(result, x.accounts[i])
	}
	return result
}

// Descendants returns every account below accountID, depth first.
func (x *Index) Descendants(accountID string) []model.Account {
	var result []model.Account
	x.walk(accountID, func(a model.Account) { result = append(result, a) })
	return result
}

// IsDescendant reports whether candidate sits anywhere below ancestorID.
func (x *Index) IsDescendant(candidate, ancestorID string) bool {
	found := false
	x.walk(ancestorID, func(a model.Account) {
		if a.ID == candidate {
			found = true
		}
	})
	return found
}

// Ancestors returns the parent chain of accountID, nearest first. The walk
// stops at a missing parent or a cycle.
func (x *Index) Ancestors(accountID string) []model.Account {
	var result []model.Account
	seen := map[string]bool{accountID: true}
	a, ok := x.Get(accountID)
	for ok && a.ParentID != "" && !seen[a.ParentID] {
		seen[a.ParentID] = true
		a, ok = x.Get(a.ParentID)
		if ok {
			result = append(result, a)
		}
	}
	return result
}

func (x *Index) walk(accountID string, fn func(model.Account)) {
	seen := map[string]bool{accountID: true}
	var visit func(string)
	visit = func(parent string) {
		for _, i := range x.children[parent] {
			a := x.accounts[i]
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			fn(a)
			visit(a.ID)
		}
	}
	visit(accountID)
}
