package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"bigfuture-scraper/utils"
)

// SlugCache remembers which profile URL each college name resolved to,
// bounded by an LRU policy. The on-disk form is a JSON object whose
// key order encodes recency, oldest first, so a reload rebuilds the
// same eviction order.
type SlugCache struct {
	path   string
	lru    *lru.Cache[string, string]
	logger *utils.Logger
}

// NewSlugCache loads the cache file if one exists. An unreadable file
// is logged and treated as empty.
func NewSlugCache(path string, capacity int, logger *utils.Logger) (*SlugCache, error) {
	c, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, fmt.Errorf("slugcache: %w", err)
	}

	sc := &SlugCache{path: path, lru: c, logger: logger}
	if err := sc.load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("[slugcache] Could not load %s, starting empty: %v", path, err)
	}
	return sc, nil
}

// Get looks up a name (case-insensitive) and refreshes its recency.
func (s *SlugCache) Get(name string) (string, bool) {
	return s.lru.Get(strings.ToLower(name))
}

// Add stores a resolution under the lowercased name, evicting the
// least recently used entry when over capacity.
func (s *SlugCache) Add(name, url string) {
	s.lru.Add(strings.ToLower(name), url)
}

// Len reports the number of cached entries.
func (s *SlugCache) Len() int {
	return s.lru.Len()
}

// Keys returns the cached names from least to most recently used.
func (s *SlugCache) Keys() []string {
	return s.lru.Keys()
}

// Save writes the cache atomically, oldest entry first.
func (s *SlugCache) Save() error {
	keys := s.lru.Keys()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		v, _ := s.lru.Peek(k)
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(v)
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  ")
		buf.Write(kb)
		buf.WriteString(": ")
		buf.Write(vb)
	}
	if len(keys) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')

	if err := atomicWriteFile(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("slugcache: %w", err)
	}
	return nil
}

// load replays the JSON object in file order so recency survives the
// round trip.
func (s *SlugCache) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("unexpected token %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("parse value for %q: %w", key, err)
		}
		s.lru.Add(key, value)
	}
	return nil
}
