package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"bigfuture-scraper/utils"
)

// Checkpoint persists the cyclic scrape offset so a restarted worker
// resumes where the previous run stopped.
type Checkpoint struct {
	path   string
	logger *utils.Logger
}

// NewCheckpoint creates a Checkpoint store backed by the JSON file at path.
func NewCheckpoint(path string, logger *utils.Logger) *Checkpoint {
	return &Checkpoint{path: path, logger: logger}
}

// Load returns the saved offset, or 0 when the file is missing or
// unreadable. Losing a checkpoint only costs reprocessing.
func (c *Checkpoint) Load() int {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("[checkpoint] Could not read %s, starting from 0: %v", c.path, err)
		}
		return 0
	}

	var state struct {
		Index int `json:"index"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		c.logger.Warn("[checkpoint] Corrupt state in %s, starting from 0: %v", c.path, err)
		return 0
	}
	return state.Index
}

// Save writes the offset atomically.
func (c *Checkpoint) Save(index int) error {
	data, err := json.Marshal(struct {
		Index int `json:"index"`
	}{Index: index})
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}
	if err := atomicWriteFile(c.path, data); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}
