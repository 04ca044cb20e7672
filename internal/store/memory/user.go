package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"pastebin/internal/model"
	"pastebin/internal/store"
)

func (s *Store) AddUser(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.TrimSpace(u.Username)
	if username == "" {
		return errWithCode("username_required")
	}

	key := userKey(username)
	if _, ok := s.users[key]; ok {
		return store.ErrConflict
	}

	u.Username = username
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Meta = copyMeta(u.Meta)
	s.users[key] = u
	return nil
}

func (s *Store) GetUser(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userKey(username)]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Meta = copyMeta(u.Meta)
	return &u, nil
}

func (s *Store) ListUsernames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Username)
	}
	sort.Strings(out)
	return out, nil
}

// copyMeta keeps callers from mutating stored records through the shared map.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
