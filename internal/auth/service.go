// Package auth verifies credentials, issues and validates session tokens,
// and registers users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"pastebin/internal/logging"
	"pastebin/internal/model"
	"pastebin/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

type Options struct {
	// Secret is the HS256 key. Empty means a random key per process.
	Secret              string
	TokenTTL            time.Duration
	RegistrationEnabled bool
	BcryptCost          int
	Now                 func() time.Time
}

type Service struct {
	store store.Store
	log   logging.Logger

	key          []byte
	ttl          time.Duration
	registration bool
	cost         int
	now          func() time.Time

	// dummyHash is compared against when the user is unknown, so a miss
	// costs the same bcrypt work as a wrong password.
	dummyHash []byte
}

func NewService(st store.Store, opts Options, log logging.Logger) (*Service, error) {
	if opts.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", opts.TokenTTL)
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Service{
		store:        st,
		log:          log.With("component", "auth"),
		key:          []byte(opts.Secret),
		ttl:          opts.TokenTTL,
		registration: opts.RegistrationEnabled,
		cost:         opts.BcryptCost,
		now:          opts.Now,
	}

	if opts.Secret == "" {
		key, err := randomKey()
		if err != nil {
			return nil, err
		}
		s.key = key
		s.log.Warn(context.Background(), "no secret key configured; using a random key, tokens will not survive a restart")
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

// Register creates an account when self-registration is enabled.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if !s.registration {
		return ErrRegistrationDisabled
	}
	u, err := s.CreateUser(ctx, username, password, nil)
	if err != nil {
		return err
	}
	s.log.Info(ctx, "user registered", "username", u.Username)
	return nil
}

// CreateUser validates and stores a new user regardless of the registration
// setting.
func (s *Service) CreateUser(ctx context.Context, username, password string, meta map[string]any) (model.User, error) {
	username = strings.TrimSpace(username)
	if !usernameRegex.MatchString(username) {
		return model.User{}, ErrInvalidUsername
	}
	if password == "" || len(password) > maxPasswordBytes {
		return model.User{}, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		Username:     username,
		PasswordHash: string(hash),
		Meta:         meta,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.AddUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return model.User{}, ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("add user: %w", err)
	}
	return u, nil
}

// Seed creates each listed user that does not exist yet and returns the
// names it created.
func (s *Service) Seed(ctx context.Context, users map[string]string) ([]string, error) {
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	created := []string{}
	for _, name := range names {
		_, err := s.CreateUser(ctx, name, users[name], map[string]any{"seeded": true})
		switch {
		case err == nil:
			created = append(created, name)
		case errors.Is(err, ErrUsernameTaken):
		default:
			return created, fmt.Errorf("seed user %q: %w", name, err)
		}
	}
	return created, nil
}

func (s *Service) Usernames(ctx context.Context) ([]string, error) {
	names, err := s.store.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return names, nil
}

// IssueToken checks the credentials and returns a signed session token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) IssueToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.store.GetUser(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("load user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.sign(u.Username)
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "user logged in", "username", u.Username)
	return token, nil
}

// ValidateToken returns the user a token was issued to. The user is looked
// up again, so tokens of users removed from the store stop working.
func (s *Service) ValidateToken(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrMissing
	}

	claims, err := s.parse(token)
	if err != nil {
		return model.User{}, err
	}

	u, err := s.store.GetUser(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, ErrUnknownSubject
		}
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	return *u, nil
}

// Authorize validates the token carried in an Authorization header value.
func (s *Service) Authorize(ctx context.Context, header string) (model.User, error) {
	token, err := BearerToken(header)
	if err != nil {
		return model.User{}, err
	}
	return s.ValidateToken(ctx, token)
}

func (s *Service) RegistrationEnabled() bool { return s.registration }
