package storage

import (
	"context"
)

// Store is a string key/value store. Get reports a missing key with
// common.ErrorNotFound.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Has(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	// DeleteKeys removes every listed key atomically. Missing keys are not
	// an error.
	DeleteKeys(ctx context.Context, keys ...string) error
}
