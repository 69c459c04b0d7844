// Package accounts builds and looks up chart-of-accounts nodes.
package accounts

import (
	"strings"
	"time"
	"unicode"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// PathSeparator joins slugs in an account path.
const PathSeparator = ":"

// Slugify lower-cases name and collapses every run of characters that are
// not letters or digits into a single '-'. Non-latin letters are kept.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Path returns the path of an account named name under parentPath.
// An empty parentPath yields a root path.
func Path(parentPath, name string) string {
	if parentPath == "" {
		return Slugify(name)
	}
	return parentPath + PathSeparator + Slugify(name)
}

// IsWithin reports whether path equals prefix or is nested below it.
func IsWithin(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+PathSeparator)
}

// Params holds the caller-supplied fields of a new account. An empty
// Currency inherits the parent's.
type Params struct {
	Name     string
	Icon     string
	Note     string
	Currency string
}

// NewAccount creates a child of parent. Type is inherited, and so is the
// currency unless p names one.
func NewAccount(p Params, parent model.Account, gen id.Generator, now time.Time) model.Account {
	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if currency == "" {
		currency = parent.Currency
	}
	return model.Account{
		ID:        gen.New(id.KindAccount),
		Name:      p.Name,
		Type:      parent.Type,
		Currency:  currency,
		ParentID:  parent.ID,
		Path:      Path(parent.Path, p.Name),
		Icon:      p.Icon,
		Note:      p.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewRoot creates the root account for typ.
func NewRoot(typ model.AccountType, currency string, gen id.Generator, now time.Time) model.Account {
	name := RootName(typ)
	return model.Account{
		ID:        gen.New(id.KindAccount),
		Name:      name,
		Type:      typ,
		Currency:  currency,
		Path:      Path("", name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ByID returns the account with the given id.
func ByID(accounts []model.Account, accountID string) (model.Account, bool) {
	for _, a := range accounts {
		if a.ID == accountID {
			return a, true
		}
	}
	return model.Account{}, false
}

// ByPath returns the account with the given path.
func ByPath(accounts []model.Account, path string) (model.Account, bool) {
	for _, a := range accounts {
		if a.Path == path {
			return a, true
		}
	}
	return model.Account{}, false
}

// ByType returns all accounts of the given type.
func ByType(accounts []model.Account, typ model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range accounts {
		if a.Type == typ {
			result = append(result, a)
		}
	}
	return result
}

// Roots returns the accounts without a parent.
func Roots(accounts []model.Account) []model.Account {
	var result []model.Account
	for _, a := range accounts {
		if a.IsRoot() {
			result = append(result, a)
		}
	}
	return result
}

// Children returns the direct children of accountID.
func Children(accounts []model.Account, accountID string) []model.Account {
	return NewIndex(accounts).Children(accountID)
}

// Descendants returns every account below accountID, depth first.
func Descendants(accounts []model.Account, accountID string) []model.Account {
	return NewIndex(accounts).Descendants(accountID)
}

// Clone returns a copy of accounts that can be modified freely.
func Clone(accounts []model.Account) []model.Account {
	out := make([]model.Account, len(accounts))
	copy(out, accounts)
	return out
}
