package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend keeps all settings in one JSON document.
type FileBackend struct {
	path string

	mu  sync.Mutex
	doc map[string]json.RawMessage
}

// OpenFile loads the document at path. A missing file is an empty
// document; an unreadable one is logged and treated as empty until the next
// save replaces it.
func OpenFile(path string) (*FileBackend, error) {
	b := &FileBackend{
		path: path,
		doc:  make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &b.doc); err != nil {
			slog.Warn("settings file is not valid JSON, using defaults",
				"path", path, "error", err)
			b.doc = make(map[string]json.RawMessage)
		}
	}

	return b, nil
}

// Path returns the settings file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Load implements Backend.
func (b *FileBackend) Load(key string, out any) (bool, error) {
	b.mu.Lock()
	raw, ok := b.doc[key]
	b.mu.Unlock()

	if !ok || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// Save implements Backend. Unknown keys already in the file are kept.
func (b *FileBackend) Save(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prev, had := b.doc[key]
	b.doc[key] = raw
	if err := b.write(); err != nil {
		if had {
			b.doc[key] = prev
		} else {
			delete(b.doc, key)
		}
		return err
	}
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	return nil
}

// write replaces the file atomically. Caller holds b.mu.
func (b *FileBackend) write() error {
	data, err := json.MarshalIndent(b.doc, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
