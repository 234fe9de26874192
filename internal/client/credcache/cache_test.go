package credcache

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/storage"
	"github.com/aydevelopers/adminconsole/internal/common"
	"github.com/aydevelopers/adminconsole/internal/cryptox"
	"github.com/aydevelopers/adminconsole/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type recLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recLogger) Debug(context.Context, string, ...any) {}
func (l *recLogger) Info(context.Context, string, ...any)  {}
func (l *recLogger) Error(context.Context, string, ...any) {}
func (l *recLogger) Warn(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *recLogger) With(...any) logging.Logger { return l }

func newStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.RunMigrations(context.Background(), db))
	return storage.NewSQLiteStore(db)
}

var testProfile = models.Profile{
	ID:        "64f1",
	FirstName: "Ada",
	LastName:  "Obi",
	Email:     "ada@example.com",
	Phone:     "+2348000000000",
	Role:      models.RoleManager,
	Photo:     "data:image/png;base64,AAAA",
	Country:   "NG",
	State:     "Lagos",
}

func TestStoreLoad_RoundTrip(t *testing.T) {
	longPhoto := "data:image/jpeg;base64," + strings.Repeat("QUJD", 12*1024)

	tests := []struct {
		name string
		p    models.Profile
	}{
		{"full", testProfile},
		{"only id", models.Profile{ID: "u1"}},
		{"empty optional fields", models.Profile{ID: "u2", FirstName: "Ada", Email: "ada@example.com"}},
		{"unicode", models.Profile{ID: "u3", FirstName: "Adaèze", LastName: "Ọbị 李", Email: "ada@例え.jp", State: "Ọ̀yọ́ 🌍"}},
		{"quotes and escapes", models.Profile{ID: "u4", LastName: `O"Brien\ <b>&`, Country: "line\nbreak\t"}},
		{"long photo", models.Profile{ID: "u5", Photo: longPhoto}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c := New(newStore(t), "s3cret", logging.Nop())

			require.NoError(t, c.Store(ctx, tt.p))

			got, err := c.Load(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.p, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_RejectsInvalidUTF8(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	c := New(st, "s3cret", logging.Nop())
	require.NoError(t, c.Store(ctx, testProfile))

	bad := testProfile
	bad.LastName = "Ad\xffe"
	err := c.Store(ctx, bad)
	require.ErrorIs(t, err, ErrInvalidText)
	assert.Contains(t, err.Error(), "lastName")

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testProfile, got, "previous credential is kept")
}

func TestStore_ValueIsNotPlaintext(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	c := New(st, "s3cret", logging.Nop())

	require.NoError(t, c.Store(ctx, testProfile))

	raw, err := st.Get(ctx, common.UserDataKey)
	require.NoError(t, err)
	assert.NotContains(t, raw, testProfile.Email)
	assert.Contains(t, raw, "v1.")
}

func TestStore_OverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	c := New(st, "s3cret", logging.Nop())

	require.NoError(t, c.Store(ctx, testProfile))
	second := testProfile
	second.ID = "other"
	require.NoError(t, c.Store(ctx, second))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "other", got.ID)

	all, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_RejectsProfileWithoutID(t *testing.T) {
	c := New(newStore(t), "s3cret", logging.Nop())
	require.ErrorIs(t, c.Store(context.Background(), models.Profile{Email: "x"}), ErrInvalidProfile)
}

func TestLoad_Missing(t *testing.T) {
	c := New(newStore(t), "s3cret", logging.Nop())
	_, err := c.Load(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestLoad_Corrupted(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain text", "hello"},
		{"bad base64", "v1.!!!"},
		{"truncated", "v1.AAAA"},
		{"legacy unauthenticated format", "U2FsdGVkX1+abcdefghijklmnop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := newStore(t)
			c := New(st, "s3cret", logging.Nop())
			require.NoError(t, st.Set(ctx, common.UserDataKey, tt.raw))

			require.NotPanics(t, func() {
				_, err := c.Load(ctx)
				require.ErrorIs(t, err, ErrCorrupted)
				require.NotErrorIs(t, err, ErrNoCredential)
			})
		})
	}
}

func TestLoad_TamperedCiphertext(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	c := New(st, "s3cret", logging.Nop())
	require.NoError(t, c.Store(ctx, testProfile))

	raw, err := st.Get(ctx, common.UserDataKey)
	require.NoError(t, err)
	b := []byte(raw)
	i := len(b) - 5
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	require.NoError(t, st.Set(ctx, common.UserDataKey, string(b)))

	_, err = c.Load(ctx)
	require.ErrorIs(t, err, ErrCorrupted)
}

func TestLoad_WrongSecret(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	require.NoError(t, New(st, "one", logging.Nop()).Store(ctx, testProfile))

	_, err := New(st, "two", logging.Nop()).Load(ctx)
	require.ErrorIs(t, err, ErrCorrupted)
}

func TestLoad_NullPayloadIsCorrupted(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	c := New(st, "s3cret", logging.Nop())

	var nothing *models.Profile
	sealed, err := sealWith(c, nothing)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, common.UserDataKey, sealed))

	_, err = c.Load(ctx)
	require.ErrorIs(t, err, ErrCorrupted)
}

func TestNew_EmptySecretWarnsAndUsesFallback(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	log := &recLogger{}

	c := New(st, "", log)
	require.Len(t, log.warns, 1)

	require.NoError(t, c.Store(ctx, testProfile))
	_, err := New(st, FallbackSecret, logging.Nop()).Load(ctx)
	require.NoError(t, err)
}

func TestPresent(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	c := New(st, "s3cret", logging.Nop())

	assert.False(t, c.Present(ctx))
	require.NoError(t, st.Set(ctx, common.UserDataKey, "garbage"))
	assert.True(t, c.Present(ctx))
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	c := New(newStore(t), "s3cret", logging.Nop())

	a, r, err := c.Tokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, a)
	assert.Empty(t, r)

	require.NoError(t, c.SaveTokens(ctx, "acc", ""))
	a, r, err = c.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc", a)
	assert.Empty(t, r)

	require.NoError(t, c.SaveTokens(ctx, "", "ref"))
	a, r, err = c.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc", a)
	assert.Equal(t, "ref", r)
	assert.Equal(t, "acc", c.AccessToken(ctx))
}

func TestClear_RemovesAllAuthKeys(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	c := New(st, "s3cret", logging.Nop())

	require.NoError(t, c.Store(ctx, testProfile))
	require.NoError(t, c.SaveTokens(ctx, "a", "r"))
	require.NoError(t, st.Set(ctx, "theme", "dark"))

	require.NoError(t, c.Clear(ctx))

	all, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark"}, all)
	_, err = c.Load(ctx)
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestClear_SucceedsWhenNothingSet(t *testing.T) {
	c := New(newStore(t), "s3cret", logging.Nop())
	require.NoError(t, c.Clear(context.Background()))
	require.NoError(t, c.Clear(context.Background()))
}

type failingStore struct {
	storage.Store
	err error
}

func (f failingStore) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingStore) Has(context.Context, string) (bool, error)   { return false, f.err }
func (f failingStore) DeleteKeys(context.Context, ...string) error { return f.err }

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	c := New(failingStore{err: boom}, "s3cret", logging.Nop())

	_, err := c.Load(ctx)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNoCredential)

	assert.False(t, c.Present(ctx))
	require.ErrorIs(t, c.Clear(ctx), boom)
	assert.Empty(t, c.AccessToken(ctx))
}

func sealWith(c *Cache, v any) (string, error) {
	return cryptox.Seal(v, c.key)
}
