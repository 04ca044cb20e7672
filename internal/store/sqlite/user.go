package sqlite

import (
	"context"
	"database/sql"
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

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, meta, created_at) VALUES (?, ?, ?, ?)",
		strings.TrimSpace(u.Username),
		u.PasswordHash,
		string(metaJSON),
		createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapLiteErr(err))
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*model.User, error) {
	var (
		u         model.User
		metaJSON  string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash, meta, created_at FROM users WHERE username = ?",
		strings.TrimSpace(username),
	).Scan(&u.Username, &u.PasswordHash, &metaJSON, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", mapLiteErr(err))
	}

	u.CreatedAt = time.UnixMilli(createdAt).UTC()
	if metaJSON != "" && metaJSON != "{}" {
		if err := json.Unmarshal([]byte(metaJSON), &u.Meta); err != nil {
			return nil, fmt.Errorf("decode meta: %w", err)
		}
	}
	return &u, nil
}

func (s *Store) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT username FROM users")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", mapLiteErr(err))
	}
	defer func(rows *sql.Rows) { _ = rows.Close() }(rows)

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
