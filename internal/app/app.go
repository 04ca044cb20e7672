// Package app wires the store and services from a loaded config.
package app

import (
	"context"
	"fmt"

	"pastebin/internal/auth"
	"pastebin/internal/config"
	"pastebin/internal/ids"
	"pastebin/internal/logging"
	"pastebin/internal/paste"
	"pastebin/internal/store"
	"pastebin/internal/store/backend"
)

type App struct {
	Store  store.Store
	Auth   *auth.Service
	Pastes *paste.Service
}

// New opens the configured store and builds the services on top of it.
// Callers must Close the returned App.
func New(ctx context.Context, cfg config.Config, log logging.Logger) (*App, error) {
	st, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	authSvc, err := auth.NewService(st, auth.Options{
		Secret:              cfg.SecretKey,
		TokenTTL:            cfg.TokenTTL(),
		RegistrationEnabled: cfg.RegistrationEnabled,
		BcryptCost:          cfg.BcryptCost,
	}, log)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("auth service: %w", err)
	}

	gen, err := ids.New(cfg.IDScheme)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &App{
		Store:  st,
		Auth:   authSvc,
		Pastes: paste.NewService(st, gen, cfg.PasteRequiredFields, log),
	}, nil
}

// SeedUsers creates the configured seed users that are missing.
func (a *App) SeedUsers(ctx context.Context, users map[string]string, log logging.Logger) error {
	if len(users) == 0 {
		return nil
	}
	created, err := a.Auth.Seed(ctx, users)
	if err != nil {
		return err
	}
	if len(created) > 0 {
		log.Info(ctx, "seed users created", "usernames", created)
	}
	return nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
