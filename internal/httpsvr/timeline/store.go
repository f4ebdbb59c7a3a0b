// Package timeline serves the biographical timeline records the web
// client renders and reads aloud.
package timeline

import (
	"encoding/json"
	"os"

	platformerrors "timeline-speech-server/internal/platform/errors"
)

// Record is one timeline entry. Images and sounds are paths relative to
// the static assets dir.
type Record struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Sounds      []string `json:"sounds"`
	Source      string   `json:"source"`
}

// Store holds the records loaded at startup. The data set is read-only
// after load, so lookups need no locking.
type Store struct {
	records []Record
	byID    map[string]int
}

// LoadStore reads the records from a JSON file.
func LoadStore(path string) (*Store, error) {
	const op = "timeline.load"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "read data file "+path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, op, "parse data file "+path, err)
	}

	return NewStore(records), nil
}

// NewStore builds a store from in-memory records.
func NewStore(records []Record) *Store {
	byID := make(map[string]int, len(records))
	for i, record := range records {
		byID[record.ID] = i
	}
	return &Store{records: records, byID: byID}
}

// All returns every record in file order.
func (s *Store) All() []Record {
	return s.records
}

// Get looks up a single record by id.
func (s *Store) Get(id string) (Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Len reports the number of records.
func (s *Store) Len() int {
	return len(s.records)
}
