package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// jsonDocument keeps the table as one JSON object keyed "Kind.ID".
type jsonDocument struct{}

// Load reads the whole document. A missing file yields an error wrapping
// fs.ErrNotExist; an empty file is an empty table.
func (jsonDocument) Load(path string) (map[string][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return map[string][]byte{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	records := make(map[string][]byte, len(raw))
	for key, rec := range raw {
		records[key] = rec
	}
	return records, nil
}

// Store atomically replaces the document using the temp-file, fsync, rename
// pattern.
func (jsonDocument) Store(path string, records map[string][]byte) error {
	raw := make(map[string]json.RawMessage, len(records))
	for key, rec := range records {
		raw[key] = rec
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to path through a temp file in the same
// directory, so a reader never sees a half-written document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".hbnb-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
