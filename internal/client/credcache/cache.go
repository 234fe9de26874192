// Package credcache keeps the signed-in user's profile in persistent storage,
// encrypted under a key derived from the console's shared secret. The
// presence of the cached credential is the console's only authentication
// signal.
package credcache

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/storage"
	"github.com/aydevelopers/adminconsole/internal/common"
	"github.com/aydevelopers/adminconsole/internal/cryptox"
	"github.com/aydevelopers/adminconsole/internal/logging"
)

// FallbackSecret is used when no secret is provisioned. Anyone holding the
// binary can read credentials sealed under it.
const FallbackSecret = "fallback-key"

var (
	ErrNoCredential   = errors.New("no cached credential")
	ErrCorrupted      = errors.New("cached credential is corrupted")
	ErrInvalidProfile = errors.New("profile has no id")
	// ErrInvalidText is returned for profiles that would not survive the JSON
	// encoding unchanged.
	ErrInvalidText = errors.New("profile field is not valid UTF-8")
)

type Cache struct {
	store  storage.Store
	key    []byte
	logger logging.Logger
}

// New derives the cache key from secret. An empty secret selects
// FallbackSecret and logs a warning.
func New(store storage.Store, secret string, logger logging.Logger) *Cache {
	if secret == "" {
		logger.Warn(context.Background(), "no encryption key provisioned, using built-in fallback secret")
		secret = FallbackSecret
	}
	return &Cache{
		store:  store,
		key:    cryptox.DeriveKey([]byte(secret)),
		logger: logger,
	}
}

// Store seals p and overwrites any previously cached credential.
func (c *Cache) Store(ctx context.Context, p models.Profile) error {
	if p.ID == "" {
		return ErrInvalidProfile
	}
	if err := checkText(p); err != nil {
		return err
	}
	sealed, err := cryptox.Seal(p, c.key)
	if err != nil {
		return fmt.Errorf("seal credential: %w", err)
	}
	return c.store.Set(ctx, common.UserDataKey, sealed)
}

func checkText(p models.Profile) error {
	fields := []struct{ name, value string }{
		{"id", p.ID},
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
		{"email", p.Email},
		{"phone", p.Phone},
		{"role", string(p.Role)},
		{"photo", p.Photo},
		{"country", p.Country},
		{"state", p.State},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s", ErrInvalidText, f.name)
		}
	}
	return nil
}

// Load reads and decrypts the cached credential. It returns ErrNoCredential
// when nothing is cached and ErrCorrupted when the stored value cannot be
// authenticated or parsed.
func (c *Cache) Load(ctx context.Context) (models.Profile, error) {
	var p models.Profile

	sealed, err := c.store.Get(ctx, common.UserDataKey)
	if errors.Is(err, common.ErrorNotFound) {
		return p, ErrNoCredential
	}
	if err != nil {
		return p, err
	}
	if sealed == "" {
		return p, ErrNoCredential
	}

	if err := cryptox.Open(sealed, c.key, &p); err != nil {
		c.logger.Warn(ctx, "failed to decrypt cached credential", "error", err)
		return models.Profile{}, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if p.ID == "" {
		c.logger.Warn(ctx, "cached credential has no user id")
		return models.Profile{}, ErrCorrupted
	}
	return p, nil
}

// Present reports whether a credential is cached, without decrypting it.
// Storage errors count as absent.
func (c *Cache) Present(ctx context.Context) bool {
	ok, err := c.store.Has(ctx, common.UserDataKey)
	if err != nil {
		c.logger.Error(ctx, "failed to check cached credential", "error", err)
		return false
	}
	return ok
}

// SaveTokens stores the non-empty tokens.
func (c *Cache) SaveTokens(ctx context.Context, access, refresh string) error {
	if access != "" {
		if err := c.store.Set(ctx, common.TokenKey, access); err != nil {
			return err
		}
	}
	if refresh != "" {
		if err := c.store.Set(ctx, common.RefreshTokenKey, refresh); err != nil {
			return err
		}
	}
	return nil
}

// Tokens returns the stored access and refresh tokens; missing ones are empty.
func (c *Cache) Tokens(ctx context.Context) (access, refresh string, err error) {
	access, err = c.optional(ctx, common.TokenKey)
	if err != nil {
		return "", "", err
	}
	refresh, err = c.optional(ctx, common.RefreshTokenKey)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// AccessToken returns the stored access token or "".
func (c *Cache) AccessToken(ctx context.Context) string {
	access, err := c.optional(ctx, common.TokenKey)
	if err != nil {
		c.logger.Error(ctx, "failed to read access token", "error", err)
		return ""
	}
	return access
}

// Clear removes the credential and both tokens. Keys that were never set are
// not an error.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.DeleteKeys(ctx, common.AuthKeys...); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func (c *Cache) optional(ctx context.Context, key string) (string, error) {
	v, err := c.store.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	return v, err
}
