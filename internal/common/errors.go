// Package common defines shared constants and sentinel errors used across
// the console layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")

	// Token errors (malformed access token in storage).
	ErrInvalidToken = errors.New("invalid token")
)
