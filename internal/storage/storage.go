// Package storage holds the in-memory table of live entities and mirrors it
// to and from a single document on disk.
//
// The table maps "Kind.ID" keys to entities. It is populated by Reload,
// grown by Register, shrunk by callers deleting from the map returned by All,
// and written out whole by Save. Storage is not safe for concurrent use; the
// console drives it from a single goroutine.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// document reads and writes the full set of encoded records at a path.
// Load returns an error wrapping fs.ErrNotExist when there is no document.
type document interface {
	Load(path string) (map[string][]byte, error)
	Store(path string, records map[string][]byte) error
}

// FileStorage is the entity table plus the document it is mirrored to.
type FileStorage struct {
	path    string
	doc     document
	objects map[string]*types.Entity
	logger  *slog.Logger
}

// NewFileStorage validates cfg and returns an empty storage bound to the
// document at cfg.Path(). Nothing is read until Reload is called.
// A nil logger discards log output.
func NewFileStorage(cfg types.Config, logger *slog.Logger) (*FileStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("storage config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var doc document
	switch cfg.Backend {
	case types.BackendSQLite:
		doc = sqliteDocument{}
	default:
		doc = jsonDocument{}
	}

	return &FileStorage{
		path:    cfg.Path(),
		doc:     doc,
		objects: make(map[string]*types.Entity),
		logger:  logger.With("component", "storage", "backend", cfg.Backend),
	}, nil
}

// Path returns the backing document path.
func (s *FileStorage) Path() string {
	return s.path
}

// SetPath changes the backing document path. Call it before Reload.
func (s *FileStorage) SetPath(path string) {
	s.path = path
}

// Register adds an entity to the table under its "Kind.ID" key. It does not
// persist.
//
// Returns ErrBadInstance for empty placeholders (nil, a nil *Entity, an empty
// map, slice, string or struct, or an entity without ID or kind) and
// ErrNotEntity for any other value that is not a *types.Entity.
func (s *FileStorage) Register(obj any) error {
	if isEmpty(obj) {
		return types.ErrBadInstance
	}
	e, ok := obj.(*types.Entity)
	if !ok {
		return fmt.Errorf("%w: got %T", types.ErrNotEntity, obj)
	}
	if e.ID == "" || !e.Kind.Valid() {
		return types.ErrBadInstance
	}
	s.objects[e.Key()] = e
	return nil
}

// All returns the live table. It is not a copy: deleting a key removes the
// entity from storage, and the next Save drops it from the document.
func (s *FileStorage) All() map[string]*types.Entity {
	return s.objects
}

// Save writes every entity in the table to the backing document, replacing
// its previous contents.
func (s *FileStorage) Save() error {
	records := make(map[string][]byte, len(s.objects))
	for key, e := range s.objects {
		raw, err := encodeRecord(e)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		records[key] = raw
	}
	if err := s.doc.Store(s.path, records); err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	s.logger.Debug("saved document", "path", s.path, "objects", len(records))
	return nil
}

// Reload replaces the table with the contents of the backing document. A
// missing document leaves the table empty and is not an error. Records that
// cannot be rebuilt into an entity are skipped with a warning.
func (s *FileStorage) Reload() error {
	clear(s.objects)

	records, err := s.doc.Load(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no document to reload", "path", s.path)
			return nil
		}
		return fmt.Errorf("reloading %s: %w", s.path, err)
	}

	for key, raw := range records {
		rec, order, err := decodeRecord(raw)
		if err != nil {
			s.logger.Warn("skipping malformed record", "key", key, "err", err)
			continue
		}
		e, err := types.FromOrderedRecord(rec, order)
		if err != nil {
			s.logger.Warn("skipping record", "key", key, "err", err)
			continue
		}
		s.objects[e.Key()] = e
	}
	s.logger.Debug("reloaded document", "path", s.path, "objects", len(s.objects))
	return nil
}

// isEmpty reports whether obj is an empty placeholder rather than a value
// that merely has the wrong type.
func isEmpty(obj any) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Struct:
		return v.NumField() == 0
	default:
		return false
	}
}
