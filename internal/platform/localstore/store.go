// Package localstore persists every collection as plain CSV and JSON files
// inside a single data directory. Files are created lazily: a missing file
// reads as an empty collection, and each write rewrites the whole file.
package localstore

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
)

const (
	inventoryFile     = "inventory.csv"
	historyFile       = "history.csv"
	lostFile          = "lost.csv"
	soldFile          = "sold.csv"
	exchangeRatesFile = "exchange_rates.csv"
	productsFile      = "products_global.json"
	categoriesFile    = "categories.json"
	accountsFile      = "accounts.json"
	subscriptionsFile = "subscriptions.json"
	depositsFile      = "deposits.json"
)

// Store is a file-backed record store rooted at one directory. A single
// mutex serializes access; the store is built for one local process, not for
// concurrent writers.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore opens a store at dir, creating the directory when absent
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, commonErrors.NewStorageError("failed to create data directory", err).
			WithDetail("dir", dir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store is rooted at
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readCSV returns the header row and data rows of a CSV file. A missing file
// reads as no header and no rows.
func (s *Store) readCSV(name string) ([]string, [][]string, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, commonErrors.NewStorageError("failed to open csv file", err).
			WithDetail("file", name)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, commonErrors.NewStorageError("failed to parse csv file", err).
			WithDetail("file", name)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// writeCSV rewrites a CSV file with the given header and rows
func (s *Store) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(s.path(name))
	if err != nil {
		return commonErrors.NewStorageError("failed to create csv file", err).
			WithDetail("file", name)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return commonErrors.NewStorageError("failed to write csv file", err).
			WithDetail("file", name)
	}
	if err := w.WriteAll(rows); err != nil {
		return commonErrors.NewStorageError("failed to write csv file", err).
			WithDetail("file", name)
	}
	w.Flush()
	return w.Error()
}

// readJSON decodes a JSON file into out, leaving out untouched when the file
// is absent
func (s *Store) readJSON(name string, out interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return commonErrors.NewStorageError("failed to read json file", err).
			WithDetail("file", name)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return commonErrors.NewStorageError("failed to parse json file", err).
			WithDetail("file", name)
	}
	return nil
}

// writeJSON rewrites a JSON file from v
func (s *Store) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return commonErrors.NewStorageError("failed to encode json file", err).
			WithDetail("file", name)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return commonErrors.NewStorageError("failed to write json file", err).
			WithDetail("file", name)
	}
	return nil
}

// fileExists reports whether a store file is present on disk
func (s *Store) fileExists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// columnIndex maps a CSV header to column positions
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return index
}

// cell reads one named column out of a CSV record, tolerating files written
// before the column existed: a missing column reads as the empty string
func cell(index map[string]int, fields []string, column string) string {
	i, ok := index[column]
	if !ok || i >= len(fields) {
		return ""
	}
	return fields[i]
}
