package analyzer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteCSV emits rows in index order with the header index,code,suggestion,note.
func WriteCSV(w io.Writer, rows []ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "code", "suggestion", "note"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		rec := []string{strconv.Itoa(row.Index), row.Code, row.Suggestion, row.Note}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", row.Index, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON emits rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []ResultRow) error {
	if rows == nil {
		rows = []ResultRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// ReadNotes parses an exported JSON array into a note mapping keyed by row
// index. Code and suggestion values in the file are ignored.
func ReadNotes(r io.Reader) (map[int]string, error) {
	var rows []ResultRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	notes := make(map[int]string, len(rows))
	for _, row := range rows {
		notes[row.Index] = row.Note
	}
	return notes, nil
}

// ApplyNotes overwrites every row's note from the mapping. Rows whose index
// has no entry get an empty note; codes and suggestions stay untouched.
func ApplyNotes(rows []ResultRow, notes map[int]string) {
	for i := range rows {
		rows[i].Note = notes[rows[i].Index]
	}
}

// SaveRows writes rows to path through a temp file, so a failed export never
// leaves a half-written file looking complete. JSON for a .json extension,
// CSV otherwise.
func SaveRows(path string, rows []ResultRow) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	var werr error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		werr = WriteJSON(f, rows)
	} else {
		werr = WriteCSV(f, rows)
	}
	cerr := f.Close()
	if werr != nil {
		os.Remove(tmp)
		return werr
	}
	if cerr != nil {
		os.Remove(tmp)
		return fmt.Errorf("close export file: %w", cerr)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename export file: %w", err)
	}
	return nil
}

// LoadNotesFile reads a JSON note mapping from disk.
func LoadNotesFile(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open notes file: %w", err)
	}
	defer f.Close()
	return ReadNotes(f)
}
