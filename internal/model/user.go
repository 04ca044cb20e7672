package model

import "time"

type User struct {
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"`
	Meta         map[string]any `json:"meta,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
