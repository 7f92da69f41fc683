package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Session is the current authentication credential. The zero value is the
// anonymous session.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store owns the in-memory session and mirrors every change to a single
// file on disk. Construct it once and inject it wherever credentials are
// needed; there is no ambient global.
type Store struct {
	current Session
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the in-memory session.
func (st *Store) Current() Session {
	return st.current
}

// Restore reads the persisted credential, if any. Absent or malformed
// data silently yields the anonymous session; no error surfaces to the
// user for a corrupt file.
func (st *Store) Restore() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			st.current = Session{}
			return nil
		}
		return err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil || strings.TrimSpace(s.Token) == "" {
		st.current = Session{}
		return nil
	}
	st.current = s
	return nil
}

// Login replaces the current session and persists it.
func (st *Store) Login(token, email string) error {
	st.current = Session{Token: token, Email: email}
	return st.save()
}

// Logout clears the current session and removes the persisted copy.
func (st *Store) Logout() error {
	st.current = Session{}
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (st *Store) save() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st.current, "", "  ")
	if err != nil {
		return err
	}
	// The token is a credential; keep the file private.
	return atomicWriteFile(filepath.Dir(path), "session-*.json", path, append(b, '\n'), 0o600)
}

// ConfigDir resolves the directory holding persisted client state.
// TAREAS_CONFIG_DIR overrides it (keeps unit tests from touching ~/.tareas).
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("TAREAS_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tareas"), nil
}

func sessionPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
