// Package guard gates protected console views on a valid cached credential.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aydevelopers/adminconsole/internal/client/credcache"
	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/notify"
	"github.com/aydevelopers/adminconsole/internal/client/session"
	"github.com/aydevelopers/adminconsole/internal/logging"
)

// DefaultSettleDelay gives a sign-in that just completed time to land in
// storage before the credential is read.
const DefaultSettleDelay = 100 * time.Millisecond

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrSessionExpired  = errors.New("session expired while the view was open")
)

type Loader interface {
	Load(ctx context.Context) (models.Profile, error)
}

// Sessions is the session monitor as seen by the guard.
type Sessions interface {
	Start(ctx context.Context) error
	State() session.State
	Subscribe() (<-chan session.Event, func())
	Expire(reason session.Reason)
}

type Option func(*Guard)

func WithSettleDelay(d time.Duration) Option {
	return func(g *Guard) { g.settle = d }
}

func WithNotifier(n notify.Notifier) Option {
	return func(g *Guard) { g.notifier = n }
}

func WithRedirect(fn func()) Option {
	return func(g *Guard) { g.redirect = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithOnAdopt sets a callback run when Run starts a session for a credential
// the monitor was not tracking, e.g. one written by another console.
func WithOnAdopt(fn func(models.Profile)) Option {
	return func(g *Guard) { g.onAdopt = fn }
}

type Guard struct {
	loader   Loader
	sessions Sessions
	settle   time.Duration
	notifier notify.Notifier
	redirect func()
	onAdopt  func(models.Profile)
	logger   logging.Logger
}

func New(loader Loader, sessions Sessions, opts ...Option) *Guard {
	g := &Guard{
		loader:   loader,
		sessions: sessions,
		settle:   DefaultSettleDelay,
		notifier: notify.Discard{},
		redirect: func() {},
		onAdopt:  func(models.Profile) {},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enter validates the cached credential for view. On failure the user is
// told to sign in, the session is ended and the console is sent to the
// sign-in view; the returned error matches ErrUnauthenticated.
func (g *Guard) Enter(ctx context.Context, view string) (models.Profile, error) {
	if g.settle > 0 {
		t := time.NewTimer(g.settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return models.Profile{}, ctx.Err()
		case <-t.C:
		}
	}

	p, err := g.loader.Load(ctx)
	if err == nil {
		return p, nil
	}
	if ctx.Err() != nil {
		return models.Profile{}, ctx.Err()
	}

	return models.Profile{}, g.deny(ctx, view, err)
}

func (g *Guard) deny(ctx context.Context, view string, err error) error {
	g.logger.Warn(ctx, "view access denied", "view", view, "error", err)

	reason := session.ReasonCredentialInvalid
	if errors.Is(err, credcache.ErrNoCredential) || errors.Is(err, session.ErrNoCredential) {
		reason = session.ReasonCredentialMissing
	}
	g.sessions.Expire(reason)
	g.notifier.Warning("Authentication Required", "Please sign in to access this page.")
	g.redirect()

	return fmt.Errorf("%s: %w: %w", view, ErrUnauthenticated, err)
}

// adopt makes sure a session is ACTIVE for a credential Enter accepted.
func (g *Guard) adopt(ctx context.Context, view string, p models.Profile) error {
	if g.sessions.State() == session.StateActive {
		return nil
	}
	if err := g.sessions.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return g.deny(ctx, view, err)
	}
	g.logger.Info(ctx, "session started for cached credential", "view", view, "user_id", p.ID)
	g.onAdopt(p)
	return nil
}

// Run enters view and calls fn with a context that is cancelled if the
// session expires while fn runs. In that case ErrSessionExpired is returned.
// A valid credential with no ACTIVE session starts one before fn runs.
func (g *Guard) Run(ctx context.Context, view string, fn func(ctx context.Context, p models.Profile) error) error {
	p, err := g.Enter(ctx, view)
	if err != nil {
		return err
	}
	if err := g.adopt(ctx, view, p); err != nil {
		return err
	}

	// subscribed after adopt, so any EXPIRED event ends the session fn runs in
	events, unsubscribe := g.sessions.Subscribe()
	defer unsubscribe()

	vctx, cancel := context.WithCancelCause(logging.ContextWith(ctx, "view", view))
	defer cancel(nil)

	go func() {
		for ev := range events {
			if ev.State == session.StateExpired {
				cancel(ErrSessionExpired)
				return
			}
		}
	}()

	err = fn(vctx, p)
	if errors.Is(context.Cause(vctx), ErrSessionExpired) {
		return ErrSessionExpired
	}
	return err
}

// Watch redirects to sign-in whenever the session expires. It returns when
// ctx is done.
func (g *Guard) Watch(ctx context.Context) {
	events, unsubscribe := g.sessions.Subscribe()
	defer unsubscribe()

	prev := session.StateSignedOut
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.State == session.StateExpired && prev != session.StateExpired {
				g.logger.Info(ctx, "session ended, returning to sign-in", "session_id", ev.SessionID, "reason", string(ev.Reason))
				g.redirect()
			}
			prev = ev.State
		}
	}
}
