// Package paste validates, stores and reads pastes.
package paste

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pastebin/internal/ids"
	"pastebin/internal/logging"
	"pastebin/internal/model"
	"pastebin/internal/store"
)

// maxIDAttempts bounds retries when a generated id is already taken.
const maxIDAttempts = 3

type Service struct {
	store    store.Store
	ids      ids.Generator
	required []string
	log      logging.Logger
	now      func() time.Time
}

// NewService returns a service that rejects submissions leaving any of the
// required fields empty.
func NewService(st store.Store, gen ids.Generator, required []string, log logging.Logger) *Service {
	return &Service{
		store:    st,
		ids:      gen,
		required: append([]string(nil), required...),
		log:      log.With("component", "paste"),
		now:      time.Now,
	}
}

// Submit stores draft under a fresh id on behalf of author and returns the id.
func (s *Service) Submit(ctx context.Context, draft model.PasteDraft, author string) (string, error) {
	p := model.Paste{
		Title:   draft.Title,
		Content: draft.Content,
		Author:  author,
		Date:    s.now().UnixMilli(),
	}

	for _, f := range s.required {
		if !p.FieldSet(f) {
			return "", &MissingFieldError{Field: f}
		}
	}

	var err error
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		p.ID = s.ids.Generate()
		err = s.store.AddPaste(ctx, p)
		if err == nil {
			s.log.Info(ctx, "paste uploaded", "id", p.ID, "author", author)
			return p.ID, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return "", fmt.Errorf("store paste: %w", err)
		}
		s.log.Warn(ctx, "paste id collision, retrying", "id", p.ID, "attempt", attempt)
	}
	return "", fmt.Errorf("store paste: no free id after %d attempts: %w", maxIDAttempts, err)
}

func (s *Service) Retrieve(ctx context.Context, id string) (model.Paste, error) {
	p, err := s.store.GetPaste(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Paste{}, ErrNotFound
		}
		return model.Paste{}, fmt.Errorf("load paste %s: %w", id, err)
	}
	return *p, nil
}

// ListSummaries returns every paste without content, newest first.
func (s *Service) ListSummaries(ctx context.Context) ([]model.PasteSummary, error) {
	out, err := s.store.ListPasteSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pastes: %w", err)
	}
	if out == nil {
		out = []model.PasteSummary{}
	}
	return out, nil
}
