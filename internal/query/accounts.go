package query

import (
	"slices"
	"strings"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/clock"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// DefaultActiveDays is the look-back window of ActiveAccounts.
const DefaultActiveDays = 90

// Breadcrumb joins the names from the root down to accountID with sep,
// e.g. "Assets > Bank > Checking".
func Breadcrumb(l model.Ledger, accountID, sep string) string {
	idx := accounts.NewIndex(l.Accounts)
	a, ok := idx.Get(accountID)
	if !ok {
		return ""
	}
	chain := idx.Ancestors(accountID)
	names := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		names = append(names, chain[i].Name)
	}
	names = append(names, a.Name)
	return strings.Join(names, sep)
}

// WithDescendants returns accountID followed by every account below it.
func WithDescendants(l model.Ledger, accountID string) []model.Account {
	idx := accounts.NewIndex(l.Accounts)
	a, ok := idx.Get(accountID)
	if !ok {
		return nil
	}
	return append([]model.Account{a}, idx.Descendants(accountID)...)
}

// ActiveAccounts returns the unarchived accounts that have a non-zero
// balance or an entry within the last days days. days <= 0 means
// DefaultActiveDays.
func ActiveAccounts(l model.Ledger, c clock.Clock, days int) []model.Account {
	if days <= 0 {
		days = DefaultActiveDays
	}
	since := clock.Today(c).AddDays(-days)
	touched := make(map[string]bool)
	for _, e := range l.Entries {
		if e.Date.Before(since) {
			continue
		}
		for _, line := range e.Lines {
			touched[line.AccountID] = true
		}
	}

	var result []model.Account
	for _, a := range l.Accounts {
		if !a.Archived && (a.Balance != 0 || touched[a.ID]) {
			result = append(result, a)
		}
	}
	return result
}

// TreeNode is an account with its children, sorted by name.
type TreeNode struct {
	Account  model.Account
	Children []TreeNode
}

// Tree returns the account forest of typ.
func Tree(l model.Ledger, typ model.AccountType) []TreeNode {
	idx := accounts.NewIndex(l.Accounts)
	var roots []model.Account
	for _, a := range l.Accounts {
		if a.Type == typ && a.IsRoot() {
			roots = append(roots, a)
		}
	}
	slices.SortFunc(roots, byName)
	nodes := make([]TreeNode, 0, len(roots))
	for _, r := range roots {
		nodes = append(nodes, buildNode(idx, r, map[string]bool{}))
	}
	return nodes
}

func buildNode(idx *accounts.Index, a model.Account, seen map[string]bool) TreeNode {
	seen[a.ID] = true
	node := TreeNode{Account: a}
	kids := idx.Children(a.ID)
	slices.SortFunc(kids, byName)
	for _, k := range kids {
		if seen[k.ID] {
			continue
		}
		node.Children = append(node.Children, buildNode(idx, k, seen))
	}
	return node
}

// Walk calls fn for every node of the tree depth first with its depth.
func Walk(nodes []TreeNode, fn func(n TreeNode, depth int)) {
	var walk func([]TreeNode, int)
	walk = func(ns []TreeNode, depth int) {
		for _, n := range ns {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
}
