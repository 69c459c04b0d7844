// Package clock abstracts the current time so "today" queries can be pinned in tests.
package clock

import (
	"time"

	"github.com/cleared-dev/ledgerbook/internal/date"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed time.Time

// Now returns f as a time.Time.
func (f Fixed) Now() time.Time { return time.Time(f) }

// At returns a Fixed clock at midnight UTC of the given day.
func At(d date.Date) Fixed { return Fixed(d.Time()) }

// Today returns the calendar day of c.Now().
func Today(c Clock) date.Date { return date.Of(c.Now()) }
