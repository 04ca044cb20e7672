package postgres

import (
	"context"

	"pastebin/internal/model"
	"pastebin/internal/store"
)

func (s *Store) AddPaste(ctx context.Context, p model.Paste) error {
	_, err := s.pool.Exec(ctx, `
		insert into public.pastes (id, title, content, author, date)
		values ($1, $2, $3, $4, $5)
	`, p.ID, p.Title, p.Content, p.Author, p.Date)
	return mapPgErr(err)
}

func (s *Store) GetPaste(ctx context.Context, id string) (*model.Paste, error) {
	var p model.Paste
	err := s.pool.QueryRow(ctx, `
		select id, title, content, author, date
		from public.pastes
		where id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.Date)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return &p, nil
}

func (s *Store) ListPasteSummaries(ctx context.Context) ([]model.PasteSummary, error) {
	rows, err := s.pool.Query(ctx, `
		select id, title, author, date
		from public.pastes
		order by date desc, id desc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	out := []model.PasteSummary{}
	for rows.Next() {
		var sum model.PasteSummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Author, &sum.Date); err != nil {
			return nil, mapPgErr(err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgErr(err)
	}
	// Collation can reorder text ids; settle ties the same way every backend does.
	store.SortSummaries(out)
	return out, nil
}
