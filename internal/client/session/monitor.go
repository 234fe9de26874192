package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aydevelopers/adminconsole/internal/client/notify"
	"github.com/aydevelopers/adminconsole/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultIdleTimeout   = time.Hour
	DefaultPollInterval  = 5 * time.Second
	DefaultTouchInterval = time.Second
)

var ErrNoCredential = errors.New("no credential to start a session with")

// Credentials is the part of the credential cache the monitor needs.
type Credentials interface {
	Present(ctx context.Context) bool
	Clear(ctx context.Context) error
}

type Config struct {
	IdleTimeout  time.Duration
	PollInterval time.Duration
	// TouchInterval bounds how often interaction signals re-arm the timer.
	TouchInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.TouchInterval <= 0 {
		c.TouchInterval = DefaultTouchInterval
	}
	return c
}

type Option func(*Monitor)

func WithLogger(l logging.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

func WithNotifier(n notify.Notifier) Option {
	return func(m *Monitor) { m.notifier = n }
}

// WithRedirect sets the function that sends the console to the sign-in view.
func WithRedirect(fn func()) Option {
	return func(m *Monitor) { m.redirect = fn }
}

type Monitor struct {
	cfg      Config
	creds    Credentials
	logger   logging.Logger
	notifier notify.Notifier
	redirect func()
	now      func() time.Time

	mu           sync.Mutex
	ctx          context.Context
	state        State
	sessionID    string
	lastActivity time.Time
	timer        *time.Timer
	limiter      *rate.Limiter
	pollCancel   context.CancelFunc
	pollDone     chan struct{}
	nudge        chan struct{}

	pub publisher
}

func New(creds Credentials, cfg Config, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:      cfg.withDefaults(),
		creds:    creds,
		logger:   logging.Nop(),
		notifier: notify.Discard{},
		redirect: func() {},
		now:      time.Now,
		ctx:      context.Background(),
		nudge:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a new session. Without a cached credential the session ends
// at once and ErrNoCredential is returned.
func (m *Monitor) Start(ctx context.Context) error {
	m.Stop()

	if !m.creds.Present(ctx) {
		m.mu.Lock()
		m.ctx = ctx
		m.mu.Unlock()
		m.Expire(ReasonCredentialMissing)
		return ErrNoCredential
	}

	m.mu.Lock()
	m.ctx = ctx
	m.sessionID = uuid.NewString()
	m.state = StateActive
	m.lastActivity = m.now()
	m.limiter = rate.NewLimiter(rate.Every(m.cfg.TouchInterval), 1)
	m.armLocked(m.sessionID, m.cfg.IdleTimeout)

	pctx, cancel := context.WithCancel(ctx)
	m.pollCancel = cancel
	m.pollDone = make(chan struct{})
	go m.poll(pctx, m.pollDone)

	ev := Event{State: StateActive, SessionID: m.sessionID, At: m.lastActivity}
	m.mu.Unlock()

	m.logger.Info(ctx, "session started", "session_id", ev.SessionID, "idle_timeout", m.cfg.IdleTimeout)
	m.pub.publish(ev)
	return nil
}

// Touch records user activity. Signals outside an ACTIVE session are
// ignored.
func (m *Monitor) Touch(sig Signal) {
	if !sig.valid() {
		return
	}

	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return
	}
	m.lastActivity = m.now()
	if !m.limiter.Allow() {
		m.mu.Unlock()
		return
	}
	id, ctx := m.sessionID, m.ctx
	m.armLocked(id, m.cfg.IdleTimeout)
	m.mu.Unlock()

	m.logger.Debug(ctx, "session refreshed", "session_id", id, "signal", string(sig))

	if !m.creds.Present(ctx) {
		m.Expire(ReasonCredentialMissing)
	}
}

// Nudge asks the poll loop to check storage now. It never blocks.
func (m *Monitor) Nudge() {
	select {
	case m.nudge <- struct{}{}:
	default:
	}
}

// Expire ends the current session. Storage cleanup failures are reported to
// the user; the redirect to sign-in happens regardless.
func (m *Monitor) Expire(reason Reason) {
	m.mu.Lock()
	if m.state == StateExpired {
		m.mu.Unlock()
		return
	}
	m.state = StateExpired
	m.stopTimerLocked()
	if m.pollCancel != nil {
		m.pollCancel()
	}
	id := m.sessionID
	ctx := context.WithoutCancel(m.ctx)
	m.mu.Unlock()

	m.logger.Info(ctx, "session expired", "session_id", id, "reason", string(reason))

	if err := m.creds.Clear(ctx); err != nil {
		m.logger.Error(ctx, "session cleanup failed", "session_id", id, "error", err)
		m.notifier.Error("Logout Failed", "Failed to logout properly. Please try again.")
	} else if reason == ReasonIdle {
		m.notifier.Warning("Session Expired", "Your session has expired. Please login again.")
	}

	m.pub.publish(Event{State: StateExpired, SessionID: id, Reason: reason, At: m.now()})
	m.redirect()
}

// Stop releases the timer and the poll loop without ending the session.
func (m *Monitor) Stop() {
	m.mu.Lock()
	m.stopTimerLocked()
	cancel, done := m.pollCancel, m.pollDone
	m.pollCancel, m.pollDone = nil, nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Remaining is the time left before the idle timeout, zero outside an
// ACTIVE session.
func (m *Monitor) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return 0
	}
	left := m.cfg.IdleTimeout - m.now().Sub(m.lastActivity)
	if left < 0 {
		return 0
	}
	return left
}

func (m *Monitor) IdleTimeout() time.Duration {
	return m.cfg.IdleTimeout
}

// Subscribe returns a channel of state changes and a func that cancels the
// subscription. The current state is delivered first.
func (m *Monitor) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	cur := Event{State: m.state, SessionID: m.sessionID, At: m.now()}
	m.mu.Unlock()
	return m.pub.subscribe(cur)
}

func (m *Monitor) armLocked(id string, d time.Duration) {
	m.stopTimerLocked()
	m.timer = time.AfterFunc(d, func() { m.onTimer(id) })
}

func (m *Monitor) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// onTimer runs when the countdown fires. Activity recorded since the timer
// was armed (but not re-armed because of the rate limit) pushes the deadline
// out instead of expiring.
func (m *Monitor) onTimer(id string) {
	m.mu.Lock()
	if m.state != StateActive || m.sessionID != id {
		m.mu.Unlock()
		return
	}
	idle := m.now().Sub(m.lastActivity)
	if idle < m.cfg.IdleTimeout {
		m.armLocked(id, m.cfg.IdleTimeout-idle)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.Expire(ReasonIdle)
}

func (m *Monitor) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-m.nudge:
		}
		if ctx.Err() != nil {
			return
		}
		if !m.creds.Present(ctx) {
			m.Expire(ReasonCredentialMissing)
			return
		}
	}
}
