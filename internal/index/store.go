// Package index loads and saves the JSON metadata index that sits next to the
// notes in the vault directory.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tailscale/hujson"

	"github.com/starford/zk/internal/apperr"
	"github.com/starford/zk/internal/models"
	"github.com/starford/zk/internal/storage"
)

// FileName is the index file name, relative to the vault root.
const FileName = storage.ReservedPrefix + ".json"

// Store reads and writes the index through a storage.Provider.
type Store struct {
	fs storage.Provider
}

// NewStore creates a Store over fs.
func NewStore(fs storage.Provider) *Store {
	return &Store{fs: fs}
}

// Path returns the index file name relative to the vault root.
func (s *Store) Path() string {
	return FileName
}

// Exists reports whether the vault has an index file.
func (s *Store) Exists() (bool, error) {
	return s.fs.Exists(FileName)
}

// Init creates a fresh index stamped at now. An existing index is left as is.
func (s *Store) Init(now time.Time) (*models.Index, error) {
	idx := models.NewIndex(now)
	data, err := encode(idx)
	if err != nil {
		return nil, err
	}
	if err := s.fs.Create(FileName, data); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrIndexAlreadyExists, FileName)
		}
		return nil, fmt.Errorf("index: init: %w", err)
	}
	return idx, nil
}

// Load reads, standardizes and validates the index. Comments and trailing
// commas from hand edits are accepted.
func (s *Store) Load() (*models.Index, error) {
	raw, err := s.fs.Read(FileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run `zk init` first)", apperr.ErrIndexNotFound, FileName)
		}
		return nil, fmt.Errorf("index: load: %w", err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("index: parse %s: %w", FileName, err)
	}

	var idx models.Index
	if err := json.Unmarshal(std, &idx); err != nil {
		return nil, fmt.Errorf("index: decode %s: %w", FileName, err)
	}
	if idx.Zettels == nil {
		idx.Zettels = map[string]models.Record{}
	}
	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("index: invalid %s: %w", FileName, err)
	}
	return &idx, nil
}

// Save atomically overwrites the index file.
func (s *Store) Save(idx *models.Index) error {
	data, err := encode(idx)
	if err != nil {
		return err
	}
	if err := s.fs.Write(FileName, data); err != nil {
		return fmt.Errorf("index: save: %w", err)
	}
	return nil
}

func encode(idx *models.Index) ([]byte, error) {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("index: encode: %w", err)
	}
	return append(data, '\n'), nil
}
