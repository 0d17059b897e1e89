package storage

import (
	"fmt"
	"os"
	"time"
)

// MissLog records college names that could not be resolved to any
// profile page, one timestamped line per miss.
type MissLog struct {
	path string
}

// NewMissLog creates a MissLog appending to the file at path.
func NewMissLog(path string) *MissLog {
	return &MissLog{path: path}
}

// Append adds one miss entry.
func (m *MissLog) Append(name string) error {
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("misslog: open: %w", err)
	}
	defer f.Close()

	ts := time.Now().Format("2006-01-02 15:04:05")
	if _, err := fmt.Fprintf(f, "[%s] %s\n", ts, name); err != nil {
		return fmt.Errorf("misslog: write: %w", err)
	}
	return nil
}
