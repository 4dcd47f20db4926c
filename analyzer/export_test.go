package analyzer

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []ResultRow {
	codes := []string{"9123456A", "ABC123", "12345"}
	rows := make([]ResultRow, len(codes))
	for i, code := range codes {
		rows[i] = ResultRow{Index: i + 1, Code: code, Suggestion: SuggestStructure(code)}
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	rows := sampleRows()
	rows[1].Note = "ripetere, se possibile"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"index", "code", "suggestion", "note"}, records[0])
	assert.Equal(t, []string{"1", "9123456A", SuggestStructure("9123456A"), ""}, records[1])
	// Commas inside fields survive the round trip.
	assert.Equal(t, "ripetere, se possibile", records[2][3])
}

func TestJSONNoteRoundTrip(t *testing.T) {
	exported := sampleRows()
	exported[0].Note = "prima nota"
	exported[2].Note = "terza"

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exported))

	notes, err := ReadNotes(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	fresh := sampleRows()
	ApplyNotes(fresh, notes)
	assert.Equal(t, "prima nota", fresh[0].Note)
	assert.Equal(t, "", fresh[1].Note)
	assert.Equal(t, "terza", fresh[2].Note)
}

func TestImportNeverOverwritesCodes(t *testing.T) {
	file := `[{"index":1,"code":"TAMPERED","suggestion":"bogus","note":"kept"}]`
	notes, err := ReadNotes(strings.NewReader(file))
	require.NoError(t, err)

	fresh := sampleRows()
	ApplyNotes(fresh, notes)
	assert.Equal(t, "9123456A", fresh[0].Code)
	assert.Equal(t, SuggestStructure("9123456A"), fresh[0].Suggestion)
	assert.Equal(t, "kept", fresh[0].Note)
}

func TestApplyNotesClearsUnmatched(t *testing.T) {
	rows := sampleRows()
	rows[0].Note = "stale"
	rows[1].Note = "stale"
	ApplyNotes(rows, map[int]string{2: "fresh"})
	assert.Equal(t, "", rows[0].Note)
	assert.Equal(t, "fresh", rows[1].Note)
	assert.Equal(t, "", rows[2].Note)
}

func TestReadNotesMalformed(t *testing.T) {
	_, err := ReadNotes(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestSaveRows(t *testing.T) {
	dir := t.TempDir()
	rows := sampleRows()

	csvPath := filepath.Join(dir, "barcodes.csv")
	require.NoError(t, SaveRows(csvPath, rows))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "index,code,suggestion,note"))
	_, err = os.Stat(csvPath + ".tmp")
	assert.True(t, os.IsNotExist(err))

	jsonPath := filepath.Join(dir, "mapping.json")
	require.NoError(t, SaveRows(jsonPath, rows))
	notes, err := LoadNotesFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, notes, len(rows))
}
