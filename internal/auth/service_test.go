package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"pastebin/internal/logging"
	"pastebin/internal/model"
	"pastebin/internal/store"
	"pastebin/internal/store/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T, st store.Store, mutate ...func(*Options)) (*Service, *clock) {
	t.Helper()
	clk := &clock{now: t0}
	opts := Options{
		Secret:              "test-secret",
		TokenTTL:            7 * 24 * time.Hour,
		RegistrationEnabled: true,
		BcryptCost:          bcrypt.MinCost,
		Now:                 clk.Now,
	}
	for _, m := range mutate {
		m(&opts)
	}
	svc, err := NewService(st, opts, logging.Nop())
	require.NoError(t, err)
	return svc, clk
}

func withUser(t *testing.T, svc *Service, username, password string) {
	t.Helper()
	_, err := svc.CreateUser(context.Background(), username, password, nil)
	require.NoError(t, err)
}

// failingStore reports a backend outage on every user lookup.
type failingStore struct {
	*memory.Store
}

var errBackendDown = errors.New("backend down")

func (failingStore) GetUser(context.Context, string) (*model.User, error) {
	return nil, errBackendDown
}

func TestIssueAndValidateToken(t *testing.T) {
	svc, _ := newTestService(t, memory.NewStore())
	withUser(t, svc, "testuser", "testpass")
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, "testuser", "testpass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var claims Claims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "testuser", claims.Subject)
	assert.Equal(t, t0.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, t0.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	u, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", u.Username)

	u, err = svc.Authorize(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", u.Username)

	// A bare token without the scheme is accepted too.
	u, err = svc.Authorize(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", u.Username)
}

func TestIssueToken_InvalidCredentials(t *testing.T) {
	svc, _ := newTestService(t, memory.NewStore())
	withUser(t, svc, "testuser", "testpass")
	ctx := context.Background()

	_, err := svc.IssueToken(ctx, "testuser", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, errUnknown := svc.IssueToken(ctx, "nobody", "testpass")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, err.Error(), errUnknown.Error(), "unknown user and wrong password must look alike")
}

func TestIssueToken_StoreFailureIsNotMasked(t *testing.T) {
	svc, _ := newTestService(t, failingStore{memory.NewStore()})

	_, err := svc.IssueToken(context.Background(), "testuser", "testpass")
	assert.ErrorIs(t, err, errBackendDown)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, clk := newTestService(t, memory.NewStore())
	withUser(t, svc, "testuser", "testpass")
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, "testuser", "testpass")
	require.NoError(t, err)

	clk.now = t0.Add(7*24*time.Hour - time.Second)
	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)

	clk.now = t0.Add(7 * 24 * time.Hour)
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpired)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Expiry wins over a bad signature.
	other, _ := newTestService(t, memory.NewStore(), func(o *Options) { o.Secret = "other-secret" })
	forged, err := other.sign("testuser")
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, forged)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc, _ := newTestService(t, memory.NewStore())
	withUser(t, svc, "testuser", "testpass")

	other, _ := newTestService(t, memory.NewStore(), func(o *Options) { o.Secret = "other-secret" })
	forged, err := other.sign("testuser")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), forged)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	svc, _ := newTestService(t, memory.NewStore())
	withUser(t, svc, "testuser", "testpass")

	claims := Claims{
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "testuser",
			ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), none)
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), hs512)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestValidateToken_Malformed(t *testing.T) {
	svc, _ := newTestService(t, memory.NewStore())
	ctx := context.Background()

	_, err := svc.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, ErrMissing)

	_, err = svc.ValidateToken(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, ErrMalformed)

	noUsername, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, noUsername)
	assert.ErrorIs(t, err, ErrMalformed)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "testuser"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, noExpiry)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestValidateToken_UnknownSubject(t *testing.T) {
	issuer, _ := newTestService(t, memory.NewStore())
	withUser(t, issuer, "testuser", "testpass")
	token, err := issuer.IssueToken(context.Background(), "testuser", "testpass")
	require.NoError(t, err)

	// Same secret, but the user is not in this store.
	svc, _ := newTestService(t, memory.NewStore())
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnknownSubject)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidateToken_StoreFailure(t *testing.T) {
	issuer, _ := newTestService(t, memory.NewStore())
	token, err := issuer.sign("testuser")
	require.NoError(t, err)

	svc, _ := newTestService(t, failingStore{memory.NewStore()})
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, errBackendDown)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestRandomSecret(t *testing.T) {
	noSecret := func(o *Options) { o.Secret = "" }
	a, _ := newTestService(t, memory.NewStore(), noSecret)
	b, _ := newTestService(t, memory.NewStore(), noSecret)
	withUser(t, a, "testuser", "testpass")
	withUser(t, b, "testuser", "testpass")

	token, err := a.IssueToken(context.Background(), "testuser", "testpass")
	require.NoError(t, err)

	_, err = a.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
	_, err = b.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestNewService_RequiresTTL(t *testing.T) {
	_, err := NewService(memory.NewStore(), Options{}, logging.Nop())
	assert.ErrorContains(t, err, "token ttl")
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		st := memory.NewStore()
		svc, _ := newTestService(t, st, func(o *Options) { o.RegistrationEnabled = false })

		err := svc.Register(ctx, "newuser", "newpass")
		assert.ErrorIs(t, err, ErrRegistrationDisabled)

		_, err = st.GetUser(ctx, "newuser")
		assert.ErrorIs(t, err, store.ErrNotFound, "nothing is created")
	})

	t.Run("enabled", func(t *testing.T) {
		st := memory.NewStore()
		svc, _ := newTestService(t, st)

		require.NoError(t, svc.Register(ctx, "newuser", "newpass"))

		u, err := st.GetUser(ctx, "newuser")
		require.NoError(t, err)
		assert.NotEqual(t, "newpass", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass")))

		_, err = svc.IssueToken(ctx, "newuser", "newpass")
		assert.NoError(t, err)

		err = svc.Register(ctx, "NewUser", "other")
		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("validation", func(t *testing.T) {
		svc, _ := newTestService(t, memory.NewStore())

		assert.ErrorIs(t, svc.Register(ctx, "ab", "pw"), ErrInvalidUsername)
		assert.ErrorIs(t, svc.Register(ctx, "has space", "pw"), ErrInvalidUsername)
		assert.ErrorIs(t, svc.Register(ctx, "valid_name", ""), ErrInvalidPassword)
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'x'
		}
		assert.ErrorIs(t, svc.Register(ctx, "valid_name", string(long)), ErrInvalidPassword)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, memory.NewStore(), func(o *Options) { o.RegistrationEnabled = false })
	withUser(t, svc, "existing", "keepme")

	created, err := svc.Seed(ctx, map[string]string{"testuser": "testpass", "existing": "changed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"testuser"}, created)

	_, err = svc.IssueToken(ctx, "testuser", "testpass")
	assert.NoError(t, err)
	_, err = svc.IssueToken(ctx, "existing", "keepme")
	assert.NoError(t, err, "existing users keep their password")

	names, err := svc.Usernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"existing", "testuser"}, names)

	_, err = svc.Seed(ctx, map[string]string{"x": "short-name"})
	assert.ErrorIs(t, err, ErrInvalidUsername)
}
