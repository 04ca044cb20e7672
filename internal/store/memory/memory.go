package memory

import (
	"strings"
	"sync"

	"pastebin/internal/model"
)

// Store keeps users and pastes in process memory. Nothing survives a restart;
// it backs tests and throwaway instances.
type Store struct {
	mu sync.Mutex

	users  map[string]model.User // keyed by lower-cased username
	pastes map[string]model.Paste
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]model.User),
		pastes: make(map[string]model.Paste),
	}
}

func (s *Store) Close() error { return nil }

type errWithCode string

func (e errWithCode) Error() string { return string(e) }

func userKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
