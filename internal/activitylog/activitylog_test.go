package activitylog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func testRecord() Record {
	return Record{
		Timestamp: testTime,
		Command:   "entry add",
		Action:    "add_entry",
		LedgerID:  "led_0001",
		ObjectID:  "ent_0001",
		Details:   "Lunch, 12.00 CNY",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testRecord()))

	records, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testRecord(), records[0])
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, testRecord()))

	second := testRecord()
	second.Action = "remove_entry"
	require.NoError(t, Append(dir, second))

	records, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "remove_entry", records[1].Action)

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestRead_Missing(t *testing.T) {
	records, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestReadRecords_BadTimestamp(t *testing.T) {
	_, err := readRecords(strings.NewReader(Header + "\nyesterday,a,b,c,d,e\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
