package client

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/taskboard/taskboard-api/internal/dto"
)

// ErrNoSession is returned when a store holds no saved session.
var ErrNoSession = errors.New("no saved session")

// Session is the explicit credential state for one signed-in user. It is
// passed into API calls instead of living in ambient global state.
type Session struct {
	Token   string         `json:"token"`
	User    dto.UserDTO    `json:"user"`
	Company dto.CompanyDTO `json:"company"`
}

// IsAdmin reports whether the session belongs to a company administrator.
func (s *Session) IsAdmin() bool {
	return s.User.Role == "admin"
}

// SessionStore persists a session across client restarts.
type SessionStore interface {
	Load() (*Session, error)
	Save(session *Session) error
	Clear() error
}

// MemoryStore keeps the session in memory only.
type MemoryStore struct {
	session *Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the held session or ErrNoSession.
func (s *MemoryStore) Load() (*Session, error) {
	if s.session == nil {
		return nil, ErrNoSession
	}
	return s.session, nil
}

// Save replaces the held session.
func (s *MemoryStore) Save(session *Session) error {
	s.session = session
	return nil
}

// Clear drops the held session.
func (s *MemoryStore) Clear() error {
	s.session = nil
	return nil
}

// FileStore persists the session as JSON at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a session store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the session file, returning ErrNoSession when absent.
func (s *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save writes the session file, readable by the owner only.
func (s *FileStore) Save(session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the session file if present.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
