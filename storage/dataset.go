package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bigfuture-scraper/models"
	"bigfuture-scraper/utils"
)

// Dataset is the flat-file table of scraped colleges: one row per
// institution, matched case-insensitively by name. Every rewrite goes
// through a temp file and an atomic rename, so concurrent readers
// always see a complete table.
type Dataset struct {
	mu     sync.Mutex
	path   string
	logger *utils.Logger
}

// NewDataset creates a Dataset store backed by the CSV at path. The
// file itself is created on first write. Intermediate directories are
// created automatically.
func NewDataset(path string, logger *utils.Logger) (*Dataset, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("dataset: create data dir: %w", err)
	}
	return &Dataset{path: path, logger: logger}, nil
}

// Path returns the location of the backing CSV file.
func (d *Dataset) Path() string { return d.path }

// ReadAll loads every row, mapping columns by header name so files
// with missing or reordered columns still load. A missing file
// surfaces as an error satisfying errors.Is(err, os.ErrNotExist).
func (d *Dataset) ReadAll() ([]models.Row, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %q: %w", d.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %q: %w", d.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}

	rows := make([]models.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		record := record
		rows = append(rows, models.RowFromValues(func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}))
	}
	return rows, nil
}

// Upsert merges newRow into the row keyed by lookupName (falling back
// to canonicalName when empty), appending a new row if none matches,
// and rewrites the table. Fields the new record left empty keep their
// stored values; the matched row's name is always set to the
// canonical form. Returns the merged row.
func (d *Dataset) Upsert(canonicalName string, newRow models.Row, lookupName string) (models.Row, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	search := lookupName
	if search == "" {
		search = canonicalName
	}
	search = strings.ToLower(strings.TrimSpace(search))

	rows, err := d.ReadAll()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.Row{}, err
	}

	var merged models.Row
	found := false
	for i := range rows {
		if strings.ToLower(strings.TrimSpace(rows[i].Name)) != search {
			continue
		}
		rows[i].Merge(newRow)
		rows[i].Name = canonicalName
		if !found {
			merged = rows[i]
		}
		found = true
	}
	if !found {
		var row models.Row
		row.Merge(newRow)
		row.Name = canonicalName
		rows = append(rows, row)
		merged = row
	}

	if err := d.writeAll(rows); err != nil {
		return models.Row{}, err
	}
	d.logger.Info("[dataset] Updated %s (wrote %d rows)", d.path, len(rows))
	return merged, nil
}

// WriteAll replaces the whole table with rows.
func (d *Dataset) WriteAll(rows []models.Row) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeAll(rows)
}

func (d *Dataset) writeAll(rows []models.Row) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(models.Columns()); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return fmt.Errorf("dataset: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("dataset: flush: %w", err)
	}

	if err := atomicWriteFile(d.path, buf.Bytes()); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	return nil
}
