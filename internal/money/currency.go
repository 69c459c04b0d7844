package money

import (
	"strings"
	"sync"

	gomoney "github.com/Rhymond/go-money"
)

// Currency describes how a currency's amounts are stored and displayed.
type Currency struct {
	Code   string
	Symbol string
	Digits int
}

var (
	mu     sync.RWMutex
	extras = map[string]Currency{}
)

// Register adds or overrides a currency not covered by ISO 4217
// (loyalty points, crypto, ...).
func Register(code, symbol string, digits int) Currency {
	c := Currency{Code: strings.ToUpper(code), Symbol: symbol, Digits: digits}
	mu.Lock()
	extras[c.Code] = c
	mu.Unlock()
	return c
}

// Lookup returns the currency for code and whether it is known.
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(code)
	mu.RLock()
	c, ok := extras[code]
	mu.RUnlock()
	if ok {
		return c, true
	}
	if iso := gomoney.GetCurrency(code); iso != nil {
		return Currency{Code: iso.Code, Symbol: iso.Grapheme, Digits: iso.Fraction}, true
	}
	return Currency{}, false
}

// GetCurrency returns the currency for code. Unknown codes default to
// two minor-unit digits and the code itself as symbol.
func GetCurrency(code string) Currency {
	if c, ok := Lookup(code); ok {
		return c
	}
	return Currency{Code: code, Symbol: code, Digits: 2}
}

// Digits returns the number of minor-unit digits of code.
func Digits(code string) int {
	return GetCurrency(code).Digits
}

// IsKnown reports whether code is an ISO 4217 or registered currency.
func IsKnown(code string) bool {
	_, ok := Lookup(code)
	return ok
}

func (c Currency) formatter() *gomoney.Formatter {
	if iso := gomoney.GetCurrency(c.Code); iso != nil && iso.Grapheme == c.Symbol && iso.Fraction == c.Digits {
		return iso.Formatter()
	}
	return &gomoney.Formatter{
		Fraction: c.Digits,
		Decimal:  ".",
		Thousand: ",",
		Grapheme: c.Symbol,
		Template: "$1",
	}
}
