package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/date"
)

// ExchangeRate converts one unit of From into Rate units of To, effective on Date.
type ExchangeRate struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	Date date.Date       `json:"date"`
}

// UpsertRate returns a copy of rates with r inserted, replacing any rate
// for the same pair on the same date.
func UpsertRate(rates []ExchangeRate, r ExchangeRate) []ExchangeRate {
	out := make([]ExchangeRate, 0, len(rates)+1)
	replaced := false
	for _, existing := range rates {
		if existing.From == r.From && existing.To == r.To && existing.Date == r.Date {
			if !replaced {
				out = append(out, r)
				replaced = true
			}
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, r)
	}
	return out
}

// FindRate resolves the rate from -> to effective on day. The most recent
// exact-pair rate dated on or before day wins; otherwise the most recent
// reverse-pair rate is inverted.
func FindRate(rates []ExchangeRate, from, to string, day date.Date) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if r, ok := latest(rates, from, to, day); ok {
		return r.Rate, true
	}
	if r, ok := latest(rates, to, from, day); ok && !r.Rate.IsZero() {
		return decimal.NewFromInt(1).DivRound(r.Rate, 16), true
	}
	return decimal.Decimal{}, false
}

func latest(rates []ExchangeRate, from, to string, day date.Date) (ExchangeRate, bool) {
	var best ExchangeRate
	found := false
	for _, r := range rates {
		if r.From != from || r.To != to || r.Date.After(day) {
			continue
		}
		if !found || r.Date.After(best.Date) {
			best = r
			found = true
		}
	}
	return best, found
}

// Convert expresses m in the target currency using the rate effective on day.
// Minor units are rebased between the two currencies' digit counts before the
// rate is applied, and the result is rounded to the nearest minor unit.
func Convert(m Money, to string, rates []ExchangeRate, day date.Date) (Money, error) {
	if m.Currency == to {
		return m, nil
	}
	rate, ok := FindRate(rates, m.Currency, to, day)
	if !ok {
		return Money{}, fmt.Errorf("%w: %s -> %s on %s", ErrRateUnavailable, m.Currency, to, day)
	}
	shift := int32(Digits(to) - Digits(m.Currency))
	amount := decimal.NewFromInt(m.Amount).Shift(shift).Mul(rate).Round(0)
	return Money{Amount: amount.IntPart(), Currency: to}, nil
}
