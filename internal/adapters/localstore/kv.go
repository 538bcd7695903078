package localstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore is a persistent key-value store scoped to a single directory.
// Each key maps to one JSON document in its own file, written atomically.
// It is the local-first counterpart of browser origin storage: synchronous,
// shared between processes, last write wins.
type FileStore struct {
	dir string

	mu        sync.Mutex
	ownWrites map[string]string // key -> sha256 of last value written by this process
}

// NewFileStore creates the backing directory if needed and returns a store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{
		dir:       dir,
		ownWrites: make(map[string]string),
	}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the value for key, with found=false when the key is absent.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes the value for key atomically (temp file + rename), so another
// process watching the directory never observes a half-written document.
func (s *FileStore) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}

	s.mu.Lock()
	s.ownWrites[key] = fingerprint(value)
	s.mu.Unlock()

	return nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	s.mu.Lock()
	delete(s.ownWrites, key)
	s.mu.Unlock()
	return nil
}

// isOwnWrite reports whether the current on-disk value for key was written
// by this process. The watcher uses it to suppress echo events for local
// mutations, which already published through the coordinator.
func (s *FileStore) isOwnWrite(key string, value []byte) bool {
	s.mu.Lock()
	last, ok := s.ownWrites[key]
	s.mu.Unlock()
	return ok && last == fingerprint(value)
}

func fingerprint(value []byte) string {
	sum := sha256.Sum256(value)
	return hex.EncodeToString(sum[:])
}

// KeyFromFilename maps a storage file back to its key, or "" for files that
// are not storage documents (temp files, strays).
func KeyFromFilename(name string) string {
	base := filepath.Base(name)
	if strings.HasSuffix(base, ".tmp") || !strings.HasSuffix(base, ".json") {
		return ""
	}
	return strings.TrimSuffix(base, ".json")
}

// Keys names the namespaced storage keys, one per collection plus the
// session, current-user and theme preference slots.
type Keys struct {
	Namespace string
}

func (k Keys) Tasks() string         { return "tasks" }
func (k Keys) Reminders() string     { return "reminders" }
func (k Keys) Schedules() string     { return "schedules" }
func (k Keys) Notifications() string { return k.Namespace + "_notifications" }
func (k Keys) Notes() string         { return k.Namespace + "_notes" }
func (k Keys) Session() string       { return k.Namespace + "_session" }
func (k Keys) CurrentUser() string   { return k.Namespace + "_user" }
func (k Keys) Theme() string         { return "theme" }

// ForCollection maps a collection to its storage key.
func (k Keys) ForCollection(c string) string {
	switch c {
	case "notifications":
		return k.Notifications()
	case "notes":
		return k.Notes()
	default:
		return c
	}
}
