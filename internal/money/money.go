// Package money implements fixed-point amounts stored as integer minor units.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch is returned when two amounts of different currencies are combined.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrRateUnavailable is returned when no exchange rate resolves for a conversion.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// Money is an amount in the smallest unit of its currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New returns an amount of minor units.
func New(amount int64, code string) Money {
	return Money{Amount: amount, Currency: code}
}

// Zero returns a zero amount in the given currency.
func Zero(code string) Money {
	return Money{Currency: code}
}

// FromMajor converts a main-unit value (e.g. 12.34 USD) into minor units,
// rounding half away from zero.
func FromMajor(value decimal.Decimal, code string) Money {
	digits := GetCurrency(code).Digits
	return Money{Amount: value.Shift(int32(digits)).Round(0).IntPart(), Currency: code}
}

// FromString parses a decimal main-unit string like "12.34".
func FromString(s, code string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return FromMajor(d, code), nil
}

// Major returns the amount expressed in main units.
func (m Money) Major() decimal.Decimal {
	return decimal.New(m.Amount, -int32(GetCurrency(m.Currency).Digits))
}

// Format renders the amount with the currency symbol and minor-unit digits.
func (m Money) Format() string {
	return GetCurrency(m.Currency).formatter().Format(m.Amount)
}

// String renders the amount as "<major> <code>", e.g. "12.34 USD".
func (m Money) String() string {
	return m.Major().StringFixed(int32(GetCurrency(m.Currency).Digits)) + " " + m.Currency
}

// Add returns m + n. Both must share a currency.
func (m Money) Add(n Money) (Money, error) {
	if m.Currency != n.Currency {
		return Money{}, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.Currency, n.Currency)
	}
	return Money{Amount: m.Amount + n.Amount, Currency: m.Currency}, nil
}

// Sub returns m - n. Both must share a currency.
func (m Money) Sub(n Money) (Money, error) {
	if m.Currency != n.Currency {
		return Money{}, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.Currency, n.Currency)
	}
	return Money{Amount: m.Amount - n.Amount, Currency: m.Currency}, nil
}

// Neg returns -m.
func (m Money) Neg() Money { return Money{Amount: -m.Amount, Currency: m.Currency} }

// IsZero reports whether m is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive reports whether m is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative reports whether m is less than zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal reports whether m and n have the same amount and currency.
func (m Money) Equal(n Money) bool { return m.Amount == n.Amount && m.Currency == n.Currency }

// SameCurrency reports whether m and n share a currency.
func (m Money) SameCurrency(n Money) bool { return m.Currency == n.Currency }
