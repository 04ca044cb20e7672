package store

import (
	"context"
	"errors"
	"sort"

	"pastebin/internal/model"
)

var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
)

// Store is the persistence boundary for users and pastes. A write is durable
// once the call returns nil; reads observe every prior successful write.
type Store interface {
	GetUser(ctx context.Context, username string) (*model.User, error)
	AddUser(ctx context.Context, u model.User) error
	ListUsernames(ctx context.Context) ([]string, error)

	AddPaste(ctx context.Context, p model.Paste) error
	GetPaste(ctx context.Context, id string) (*model.Paste, error)
	ListPasteSummaries(ctx context.Context) ([]model.PasteSummary, error)

	Close() error
}

// SortSummaries orders summaries newest first, breaking date ties by id
// descending so every backend returns the same order.
func SortSummaries(out []model.PasteSummary) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
}
