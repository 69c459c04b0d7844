// Package id supplies opaque identifiers for accounts, entries and ledgers.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Kind is the class of object an identifier names.
type Kind string

const (
	KindAccount Kind = "acc"
	KindEntry   Kind = "ent"
	KindLedger  Kind = "led"
)

// letterRefs is the number of lines whose reference ends in a single letter.
const letterRefs = 26

// Generator hands out globally unique identifiers.
type Generator interface {
	New(kind Kind) string
}

// UUID generates identifiers like "acc_1b4e28ba-2fa1-11d2-883f-0016d3cca427".
type UUID struct{}

// New returns a fresh random identifier for kind.
func (UUID) New(kind Kind) string {
	return string(kind) + "_" + uuid.NewString()
}

// Sequence generates deterministic identifiers like "acc_0001". It is safe
// for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	next map[Kind]int
}

// NewSequence returns a Sequence starting at 1 for every kind.
func NewSequence() *Sequence {
	return &Sequence{next: make(map[Kind]int)}
}

// New returns the next identifier for kind.
func (s *Sequence) New(kind Kind) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[kind]++
	return fmt.Sprintf("%s_%04d", kind, s.next[kind])
}

// KindOf returns the kind prefix of an identifier, or "" if it has none.
func KindOf(id string) Kind {
	prefix, _, ok := strings.Cut(id, "_")
	if !ok {
		return ""
	}
	return Kind(prefix)
}

// FormatLineRef returns a line reference like "ent_0001a". Lines 0 through
// 25 take the letters a to z; later lines take a numeric suffix, "ent_0001-26".
func FormatLineRef(entryID string, line int) string {
	if line < letterRefs {
		return entryID + string(rune('a'+line))
	}
	return entryID + "-" + strconv.Itoa(line)
}

// ParseLineRef splits a line reference into its entry id and line index.
func ParseLineRef(ref string) (entryID string, line int, err error) {
	if len(ref) < 2 {
		return "", 0, fmt.Errorf("invalid line reference: %q", ref)
	}
	if suffix := ref[len(ref)-1]; suffix >= 'a' && suffix <= 'z' {
		return ref[:len(ref)-1], int(suffix - 'a'), nil
	}
	i := strings.LastIndexByte(ref, '-')
	if i <= 0 {
		return "", 0, fmt.Errorf("invalid line suffix in %q", ref)
	}
	n, err := strconv.Atoi(ref[i+1:])
	if err != nil || n < letterRefs || ref[i+1] == '0' {
		return "", 0, fmt.Errorf("invalid line suffix in %q", ref)
	}
	return ref[:i], n, nil
}
