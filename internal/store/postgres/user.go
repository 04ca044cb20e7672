package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"pastebin/internal/model"
)

func (s *Store) AddUser(ctx context.Context, u model.User) error {
	metaJSON := []byte(`{}`)
	if u.Meta != nil {
		b, err := json.Marshal(u.Meta)
		if err != nil {
			return fmt.Errorf("encode meta: %w", err)
		}
		metaJSON = b
	}

	var createdAt *time.Time
	if !u.CreatedAt.IsZero() {
		createdAt = &u.CreatedAt
	}

	_, err := s.pool.Exec(ctx, `
		insert into public.users (username, password_hash, meta, created_at)
		values ($1, $2, $3::jsonb, coalesce($4::timestamptz, now()))
	`, strings.TrimSpace(u.Username), u.PasswordHash, string(metaJSON), createdAt)
	return mapPgErr(err)
}

func (s *Store) GetUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	var metaJSON []byte
	err := s.pool.QueryRow(ctx, `
		select username, password_hash, meta, created_at
		from public.users
		where lower(username) = lower($1)
	`, strings.TrimSpace(username)).Scan(
		&u.Username,
		&u.PasswordHash,
		&metaJSON,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, mapPgErr(err)
	}
	if err := decodeMeta(metaJSON, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `select username from public.users`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapPgErr(err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgErr(err)
	}
	// Byte order, independent of the database collation.
	sort.Strings(out)
	return out, nil
}

func decodeMeta(b []byte, u *model.User) error {
	if len(b) == 0 || string(b) == "{}" {
		return nil
	}
	if err := json.Unmarshal(b, &u.Meta); err != nil {
		return fmt.Errorf("decode meta: %w", err)
	}
	return nil
}
