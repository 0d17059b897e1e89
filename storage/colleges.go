package storage

import (
	"encoding/csv"
	"fmt"
	"os"

	"bigfuture-scraper/models"
)

// ReadColleges loads the input institution list. Only the name column
// matters to the scrape loop; rows are kept in file order, duplicates
// and empty names included.
func ReadColleges(path string) ([]models.College, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("colleges: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("colleges: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	nameIdx := -1
	for i, col := range records[0] {
		if col == "name" {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("colleges: %q has no name column", path)
	}

	colleges := make([]models.College, 0, len(records)-1)
	for _, record := range records[1:] {
		name := ""
		if nameIdx < len(record) {
			name = record[nameIdx]
		}
		colleges = append(colleges, models.College{Name: name})
	}
	return colleges, nil
}
