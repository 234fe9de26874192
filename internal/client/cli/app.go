package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aydevelopers/adminconsole/internal/client/client"
	"github.com/aydevelopers/adminconsole/internal/client/config"
	"github.com/aydevelopers/adminconsole/internal/client/credcache"
	"github.com/aydevelopers/adminconsole/internal/client/guard"
	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/notify"
	"github.com/aydevelopers/adminconsole/internal/client/services"
	"github.com/aydevelopers/adminconsole/internal/client/session"
	"github.com/aydevelopers/adminconsole/internal/client/storage"
	"github.com/aydevelopers/adminconsole/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// sessionMonitor is the part of *session.Monitor the console drives.
type sessionMonitor interface {
	Start(ctx context.Context) error
	Touch(sig session.Signal)
	Expire(reason session.Reason)
	Stop()
	State() session.State
	SessionID() string
	Remaining() time.Duration
	IdleTimeout() time.Duration
}

// viewGuard wraps protected views.
type viewGuard interface {
	Run(ctx context.Context, view string, fn func(ctx context.Context, p models.Profile) error) error
	Watch(ctx context.Context)
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	auth      services.AuthService
	directory services.DirectoryService
	monitor   sessionMonitor
	guard     viewGuard
	notifier  notify.Notifier
	reader    *bufio.Reader
	out       io.Writer

	// owned resources, nil in tests
	db      *sql.DB
	watcher *storage.Watcher
	queue   *notify.Queue

	mu       sync.Mutex
	Mode     Mode
	userName string
}

// NewApp opens local storage and wires the credential cache, backend client,
// services, session monitor and route guard.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, path, err := storage.Open(ctx, c.StoragePath)
	if err != nil {
		logger.Error(ctx, "error initializing storage", "path", c.StoragePath, "error", err)
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		db:     db,
		queue:  notify.NewQueue(os.Stdout, notify.DefaultQueueSize),
	}
	a.notifier = a.queue

	cache := credcache.New(storage.NewSQLiteStore(db), c.EncryptionKey, logger)

	api := client.NewHTTPClient(c.ServerURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithTokenSource(cache.AccessToken),
		client.WithLogger(logger),
	)

	a.auth = services.NewAuthService(api, cache)
	a.directory = services.NewDirectoryService(api, cache)

	monitor := session.New(cache, session.Config{
		IdleTimeout:  c.IdleTimeout,
		PollInterval: c.MonitorPollInterval,
	},
		session.WithLogger(logger),
		session.WithNotifier(a.notifier),
		session.WithRedirect(a.toSignIn),
	)
	a.monitor = monitor

	a.guard = guard.New(cache, monitor,
		guard.WithSettleDelay(c.GuardSettleDelay),
		guard.WithNotifier(a.notifier),
		guard.WithRedirect(a.toSignIn),
		guard.WithOnAdopt(func(p models.Profile) { a.setUserName(p.Email) }),
		guard.WithLogger(logger),
	)

	a.watcher, err = storage.NewWatcher(path, monitor.Nudge, logger)
	if err != nil {
		// the poll interval still catches external changes
		logger.Warn(ctx, "storage watcher unavailable", "error", err)
		a.watcher = nil
	}

	return a, nil
}

// Run resumes a cached session if there is one, starts the background
// workers and blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer a.Close()
	defer cancel()

	var wg sync.WaitGroup
	a.goWorker(&wg, func() { a.guard.Watch(ctx) })
	a.goWorker(&wg, func() { a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval) })
	if a.queue != nil {
		a.goWorker(&wg, func() { a.queue.Run(ctx) })
	}
	if a.watcher != nil {
		a.goWorker(&wg, func() { a.watcher.Start(ctx) })
	}

	printlnFn("Admin console (type 'help' for commands)")
	a.resume(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)

	cancel()
	if a.watcher != nil {
		a.watcher.Close()
	}
	wg.Wait()
}

func (a *App) goWorker(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}

// resume starts a session from a credential cached by an earlier run.
func (a *App) resume(ctx context.Context) {
	if err := a.monitor.Start(ctx); err != nil {
		return
	}
	p, err := a.auth.Profile(ctx)
	if err != nil {
		a.monitor.Expire(session.ReasonCredentialInvalid)
		return
	}
	a.setUserName(p.Email)
	printlnFn("Welcome back,", p.FullName())
}

// Close stops the session monitor and releases local storage.
func (a *App) Close() {
	if a.monitor != nil {
		a.monitor.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error(context.Background(), "error closing storage", "error", err)
		}
		a.db = nil
	}
}

// toSignIn returns the console to the signed-out view. It is called by the
// session monitor and the guard, possibly from their goroutines.
func (a *App) toSignIn() {
	a.mu.Lock()
	was := a.userName
	a.userName = ""
	a.mu.Unlock()
	if was != "" {
		a.logger.Info(context.Background(), "returned to sign-in", "user", was)
	}
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	return a.monitor.State().Authenticated()
}

// Touch records the entered line as user activity.
func (a *App) Touch() {
	a.monitor.Touch(session.SignalKey)
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s += string(a.Mode)
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the backend every interval and records
// online/offline transitions. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.auth.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
