package session

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// FileStore keeps one TOML file per session so a remembered input can be
// read and edited by hand:
//
//	id = "local"
//	cycles = 3
//	...
//	[input]
//	center_pole_dia = 6.0
//	overall_height = 144.0
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens or creates a store in dir. An empty dir means
// <user config dir>/spiralstair/sessions.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		dir = filepath.Join(base, "spiralstair", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the session files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, filepath.Base(id)+".toml")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, err := readSession(s.path(id))
	s.mu.RUnlock()

	switch {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, err
	case sess.IsExpired():
		return nil, s.Delete(ctx, id)
	}
	return sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(sess); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(sess.ID), buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Cleanup removes expired sessions. Files that do not parse are left alone.
func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if sess, err := readSession(path); err == nil && sess.IsExpired() {
			os.Remove(path)
		}
	}
	return nil
}

func readSession(path string) (*Session, error) {
	var sess Session
	if _, err := toml.DecodeFile(path, &sess); err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("read session %s: %w", filepath.Base(path), err)
	}
	return &sess, nil
}

var _ Store = (*FileStore)(nil)
