package memory

import (
	"context"
	"strings"

	"pastebin/internal/model"
	"pastebin/internal/store"
)

func (s *Store) AddPaste(_ context.Context, p model.Paste) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errWithCode("id_required")
	}
	if _, ok := s.pastes[p.ID]; ok {
		return store.ErrConflict
	}

	s.pastes[p.ID] = p
	return nil
}

func (s *Store) GetPaste(_ context.Context, id string) (*model.Paste, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pastes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListPasteSummaries(_ context.Context) ([]model.PasteSummary, error) {
	s.mu.Lock()
	out := make([]model.PasteSummary, 0, len(s.pastes))
	for _, p := range s.pastes {
		out = append(out, p.Summary())
	}
	s.mu.Unlock()

	store.SortSummaries(out)
	return out, nil
}
