// Package client talks to the platform's REST backend.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services layer.
// HTTPClient implements it over fasthttp: every request carries a JSON body,
// an X-Request-ID and, when a token source yields one, a bearer token.
//
// # Error Handling
//
// Transport failures map to ErrUnavailable, 401/403 to ErrUnauthorized and
// 404 to common.ErrorNotFound; any other failed status is an *APIError
// carrying the backend's message. Callers match with errors.Is / errors.As.
// Nothing is retried.
//
// # Contexts
//
// Every call honours ctx: cancellation returns ctx.Err() without waiting for
// the backend, and a ctx deadline shortens the per-request timeout.
package client
