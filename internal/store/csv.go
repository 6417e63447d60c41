package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Append writes one row to the table at path, creating parent directories
// and the header line when the file does not exist yet. Existing content is
// never rewritten. Not safe for concurrent callers against the same path;
// the orchestrator is single-threaded.
func Append(path string, columns []string, row []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if !exists {
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", path, err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// WriteAll rewrites a derived table from scratch with a header and the
// given rows.
func WriteAll(path string, columns []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// readTable reads every data row of a CSV table, reordered to the given
// column list via the file's header line. Columns absent from the file read
// as empty strings. A missing file yields no rows and no error.
func readTable(path string, columns []string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	raw, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	index := headerIndex(raw[0])
	rows := make([][]string, 0, len(raw)-1)
	for _, record := range raw[1:] {
		row := make([]string, len(columns))
		for i, col := range columns {
			if pos, ok := index[col]; ok && pos < len(record) {
				row[i] = record[pos]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return index
}
