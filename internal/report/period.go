// Package report aggregates ledger activity over calendar periods.
package report

import (
	"fmt"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/date"
)

// Granularity is a reporting period length used by PeriodRange.
type Granularity string

const (
	Monthly   Granularity = "month"
	Quarterly Granularity = "quarter"
	Yearly    Granularity = "year"
)

// PeriodRange returns the inclusive first and last day of period index of
// year. index is 1-based for months and quarters and ignored for years.
func PeriodRange(year int, g Granularity, index int) (date.Date, date.Date, error) {
	switch g {
	case Monthly:
		if index < 1 || index > 12 {
			return date.Date{}, date.Date{}, fmt.Errorf("month %d out of range", index)
		}
		start := date.New(year, time.Month(index), 1)
		return start, start.EndOfMonth(), nil
	case Quarterly:
		if index < 1 || index > 4 {
			return date.Date{}, date.Date{}, fmt.Errorf("quarter %d out of range", index)
		}
		start := date.New(year, time.Month(3*index-2), 1)
		return start, start.AddMonths(2).EndOfMonth(), nil
	case Yearly:
		return date.New(year, time.January, 1), date.New(year, time.December, 31), nil
	default:
		return date.Date{}, date.Date{}, fmt.Errorf("unknown granularity %q", g)
	}
}

// Period is the bucket size used for labels and time series.
type Period string

const (
	Day     Period = "day"
	Week    Period = "week"
	Month   Period = "month"
	Quarter Period = "quarter"
	Year    Period = "year"
)

// ParsePeriod parses a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Day, Week, Month, Quarter, Year:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period: %q", s)
	}
}

// PeriodLabel returns the label of the bucket containing d: "2024-01-05",
// "2024-W01" (ISO week-year), "2024-01", "2024-Q1" or "2024".
func PeriodLabel(d date.Date, p Period) string {
	switch p {
	case Day:
		return d.String()
	case Week:
		y, w := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Month:
		return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", d.Year(), quarterOf(d))
	default:
		return fmt.Sprintf("%04d", d.Year())
	}
}

func quarterOf(d date.Date) int {
	return (int(d.Month())-1)/3 + 1
}

// PeriodStart returns the first day of the bucket containing d. Weeks
// start on Monday.
func PeriodStart(d date.Date, p Period) date.Date {
	switch p {
	case Day:
		return d
	case Week:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDays(-offset)
	case Month:
		return d.StartOfMonth()
	case Quarter:
		return date.New(d.Year(), time.Month(3*quarterOf(d)-2), 1)
	default:
		return date.New(d.Year(), time.January, 1)
	}
}

// PeriodEnd returns the last day of the bucket containing d.
func PeriodEnd(d date.Date, p Period) date.Date {
	start := PeriodStart(d, p)
	switch p {
	case Day:
		return start
	case Week:
		return start.AddDays(6)
	case Month:
		return start.EndOfMonth()
	case Quarter:
		return start.AddMonths(2).EndOfMonth()
	default:
		return date.New(d.Year(), time.December, 31)
	}
}

// Bucket is one period between two dates.
type Bucket struct {
	Label string
	Start date.Date
	End   date.Date
}

// Buckets returns every bucket overlapping [from, to], ascending.
func Buckets(from, to date.Date, p Period) []Bucket {
	var out []Bucket
	for start := PeriodStart(from, p); !start.After(to); {
		end := PeriodEnd(start, p)
		out = append(out, Bucket{Label: PeriodLabel(start, p), Start: start, End: end})
		start = end.AddDays(1)
	}
	return out
}
