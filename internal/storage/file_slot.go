package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSlot keeps every key in a single JSON document, the way a browser's
// localStorage holds one string per key.
type FileSlot struct {
	mu   sync.Mutex
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (s *FileSlot) Location() string { return s.path }

func (s *FileSlot) Close() error { return nil }

func (s *FileSlot) Read(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDoc()
	if err != nil {
		return nil, err
	}
	value, ok := doc[key]
	if !ok || len(value) == 0 || string(value) == "null" {
		return nil, ErrSlotEmpty
	}
	return value, nil
}

func (s *FileSlot) Write(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !json.Valid(data) {
		return fmt.Errorf("refusing to store invalid JSON under %q", key)
	}

	// An unreadable document is replaced rather than blocking every later write
	doc, err := s.readDoc()
	if err != nil {
		doc = map[string]json.RawMessage{}
	}
	doc[key] = json.RawMessage(data)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	return s.replace(out)
}

func (s *FileSlot) readDoc() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if len(data) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	return doc, nil
}

// replace writes to a temp file in the same directory and renames it over the target.
func (s *FileSlot) replace(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}
