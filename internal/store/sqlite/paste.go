package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"pastebin/internal/model"
	"pastebin/internal/store"
)

func (s *Store) AddPaste(ctx context.Context, p model.Paste) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO pastes (id, title, content, author, date) VALUES (?, ?, ?, ?, ?)",
		p.ID, p.Title, p.Content, p.Author, p.Date,
	)
	if err != nil {
		return fmt.Errorf("insert paste: %w", mapLiteErr(err))
	}
	return nil
}

func (s *Store) GetPaste(ctx context.Context, id string) (*model.Paste, error) {
	var p model.Paste
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, content, author, date FROM pastes WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.Date)
	if err != nil {
		return nil, fmt.Errorf("query paste: %w", mapLiteErr(err))
	}
	return &p, nil
}

func (s *Store) ListPasteSummaries(ctx context.Context) ([]model.PasteSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, author, date FROM pastes ORDER BY date DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("query pastes: %w", mapLiteErr(err))
	}
	defer func(rows *sql.Rows) { _ = rows.Close() }(rows)

	out := []model.PasteSummary{}
	for rows.Next() {
		var sum model.PasteSummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Author, &sum.Date); err != nil {
			return nil, fmt.Errorf("scan paste: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pastes: %w", err)
	}
	store.SortSummaries(out)
	return out, nil
}
