package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	var g Generator = UUID{}
	a := g.New(KindAccount)
	b := g.New(KindAccount)

	assert.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "acc_"))
	_, err := uuid.Parse(strings.TrimPrefix(a, "acc_"))
	require.NoError(t, err)
	assert.Equal(t, KindAccount, KindOf(a))
}

func TestSequence(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, "acc_0001", s.New(KindAccount))
	assert.Equal(t, "acc_0002", s.New(KindAccount))
	assert.Equal(t, "ent_0001", s.New(KindEntry))
	assert.Equal(t, "led_0001", s.New(KindLedger))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindEntry, KindOf("ent_0001"))
	assert.Equal(t, Kind(""), KindOf("plain"))
}

func TestFormatLineRef(t *testing.T) {
	tests := []struct {
		entryID string
		line    int
		want    string
	}{
		{"ent_0001", 0, "ent_0001a"},
		{"ent_0001", 1, "ent_0001b"},
		{"ent_0001", 2, "ent_0001c"},
		{"ent_0001", 25, "ent_0001z"},
		{"ent_0001", 26, "ent_0001-26"},
		{"ent_0001", 103, "ent_0001-103"},
	}
	for _, tt := range tests {
		got := FormatLineRef(tt.entryID, tt.line)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseLineRef(t *testing.T) {
	entryID, line, err := ParseLineRef("ent_0001c")
	require.NoError(t, err)
	assert.Equal(t, "ent_0001", entryID)
	assert.Equal(t, 2, line)

	_, _, err = ParseLineRef("ent_0001")
	require.Error(t, err)
	_, _, err = ParseLineRef("a")
	require.Error(t, err)
	_, _, err = ParseLineRef("ent_0001-3")
	require.Error(t, err, "short numeric suffix")
	_, _, err = ParseLineRef("ent_0001{")
	require.Error(t, err)
}

func TestLineRef_RoundTrip(t *testing.T) {
	for _, entryID := range []string{"ent_0001", UUID{}.New(KindEntry)} {
		for line := 0; line < 60; line++ {
			ref := FormatLineRef(entryID, line)
			gotID, gotLine, err := ParseLineRef(ref)
			require.NoError(t, err, ref)
			assert.Equal(t, entryID, gotID, ref)
			assert.Equal(t, line, gotLine, ref)
		}
	}
}
