package memory

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileStore хранит предпочтения пользователей в JSON файле.
// Структура: user -> category -> упорядоченный список строк.
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]map[string][]string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	s := &FileStore{path: path}
	s.data = s.load()
	log.Printf("🧠 Memory initialized from %s (%d users)", path, len(s.data))
	return s, nil
}

// load reads the backing file. Missing, empty or malformed content
// means history is lost, not that startup fails.
func (s *FileStore) load() map[string]map[string][]string {
	f, err := os.Open(s.path)
	if err != nil {
		return map[string]map[string][]string{}
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	var data map[string]map[string][]string
	dec := json.NewDecoder(f)
	if err := dec.Decode(&data); err != nil {
		// empty or malformed -> start fresh
		return map[string]map[string][]string{}
	}
	if data == nil {
		return map[string]map[string][]string{}
	}
	return data
}

// Add inserts value into the (user, category) list. Exact duplicates are
// ignored without touching the file. A real insert is flushed to disk
// before returning; the flush error is the caller's problem.
func (s *FileStore) Add(user, category, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats, ok := s.data[user]
	if !ok {
		cats = map[string][]string{}
		s.data[user] = cats
	}
	for _, v := range cats[category] {
		if v == value {
			return nil
		}
	}
	cats[category] = append(cats[category], value)
	if err := s.saveUnlocked(); err != nil {
		return fmt.Errorf("persist preference: %w", err)
	}
	return nil
}

// Search returns the stored values for (user, category) in insertion order.
func (s *FileStore) Search(user, category string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	vals := s.data[user][category]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

func (s *FileStore) saveUnlocked() error {
	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(s.data)
}
