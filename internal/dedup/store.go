package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// document is the on-disk shape: one JSON file per processing role, loaded in
// full at startup and rewritten in full after each mark.
type document struct {
	LastUpdated  time.Time `json:"lastUpdated"`
	Count        int       `json:"count"`
	ProcessedIds []string  `json:"processedIds"`
}

// Store is a persisted set of already-processed event ids. An id present in
// the set is never reprocessed; the set is trimmed oldest-first at MaxEntries,
// so the idempotence guarantee only covers the trim horizon. That horizon must
// stay longer than the relay subscribe lookback or restarts can reprocess.
type Store struct {
	mu    sync.Mutex
	path  string
	max   int
	ids   map[string]struct{}
	order []string
}

// NewStore opens the processed-id set for one processing role, creating the
// state directory and loading any existing document.
func NewStore(dir, role string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	store := &Store{
		path: filepath.Join(dir, fmt.Sprintf("processed-%s.json", role)),
		max:  maxEntries,
		ids:  make(map[string]struct{}),
	}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt state file should not take the process down; events
		// inside the lookback window will simply be reprocessed-checked.
		logrus.Errorf("corrupt processed-id document %s, starting empty: %v", s.path, err)
		return nil
	}

	for _, id := range doc.ProcessedIds {
		if _, ok := s.ids[id]; ok {
			continue
		}
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	}
	return nil
}

// Contains reports whether the event id was already processed. Absence is not
// a guarantee the event was never seen, only that it is outside the horizon.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Mark records the id and synchronously rewrites the document, so a crash
// after a side effect cannot silently un-dedup the event.
func (s *Store) Mark(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return nil
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	s.trimLocked()
	return s.flushLocked()
}

// Len returns the current number of tracked ids.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Flush rewrites the document; used on shutdown.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) trimLocked() {
	if s.max <= 0 || len(s.order) <= s.max {
		return
	}
	drop := len(s.order) - s.max
	for _, id := range s.order[:drop] {
		delete(s.ids, id)
	}
	s.order = append([]string(nil), s.order[drop:]...)
}

func (s *Store) flushLocked() error {
	doc := document{
		LastUpdated:  time.Now().UTC(),
		Count:        len(s.order),
		ProcessedIds: s.order,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal processed-id document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
