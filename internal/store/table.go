// Package store persists the pipeline tables as whole CSV files. Every table
// is read in full and replaced in full; writes go through a temporary file in
// the same directory followed by a rename, so a failed write never corrupts
// the previously persisted table.
package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"nepsecli/internal/errors"
)

// readTable reads an entire CSV file and returns its header and data rows.
// An absent file yields a NOT_FOUND error so callers can default to empty.
func readTable(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewNotFoundError(path)
		}
		return nil, nil, errors.NewStorageError("failed to open table", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.NewStorageError("failed to read table", err).WithContext("path", path)
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

// writeTable atomically replaces the CSV file at path with header + records.
func writeTable(path string, header []string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create table directory", err).WithContext("path", path)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.NewStorageError("failed to create temporary table file", err).WithContext("path", path)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return errors.NewStorageError("failed to write table header", err).WithContext("path", path)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			tmp.Close()
			return errors.NewStorageError("failed to write table row", err).
				WithContext("path", path).
				WithContext("row", i)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return errors.NewStorageError("failed to flush table", err).WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewStorageError("failed to close temporary table file", err).WithContext("path", path)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.NewStorageError("failed to replace table", err).WithContext("path", path)
	}
	return nil
}

// columnIndex maps header names to positions.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func (c columnIndex) get(row []string, name string) (string, bool) {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatFloat uses the shortest representation that round-trips, so a
// rewrite of unchanged rows is byte-identical to the previous file.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
