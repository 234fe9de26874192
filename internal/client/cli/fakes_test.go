package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aydevelopers/adminconsole/internal/client/config"
	"github.com/aydevelopers/adminconsole/internal/client/guard"
	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/notify"
	"github.com/aydevelopers/adminconsole/internal/client/services"
	"github.com/aydevelopers/adminconsole/internal/client/session"
	"github.com/aydevelopers/adminconsole/internal/logging"
)

var alice = models.Profile{
	ID:        "u-1",
	FirstName: "Alice",
	LastName:  "Doe",
	Email:     "alice@example.org",
	Role:      models.RoleManager,
}

// fakeAuth implements services.AuthService and records its inputs.
type fakeAuth struct {
	mu sync.Mutex

	signInProfile models.Profile
	signInErr     error
	signUpErr     error
	logoutErr     error
	profile       models.Profile
	profileErr    error
	refreshRet    models.Profile
	refreshErr    error
	updateRet     models.Profile
	updateErr     error
	passErr       error
	tokenInfo     services.TokenInfo
	tokenErr      error
	pingErr       error

	signInEmail string
	signInPass  string
	signUpReq   models.SignUpRequest
	signUpPass  string
	logouts     int
	update      models.ProfileUpdate
	updates     int
	passCurrent string
	passNext    string
	pings       int
}

func (f *fakeAuth) SignIn(_ context.Context, email string, password []byte) (models.Profile, error) {
	f.signInEmail, f.signInPass = email, string(password)
	return f.signInProfile, f.signInErr
}

func (f *fakeAuth) SignUp(_ context.Context, req models.SignUpRequest, password []byte) error {
	f.signUpReq, f.signUpPass = req, string(password)
	return f.signUpErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAuth) Profile(context.Context) (models.Profile, error) { return f.profile, f.profileErr }

func (f *fakeAuth) RefreshProfile(context.Context) (models.Profile, error) {
	return f.refreshRet, f.refreshErr
}

func (f *fakeAuth) UpdateProfile(_ context.Context, upd models.ProfileUpdate) (models.Profile, error) {
	f.update = upd
	f.updates++
	return f.updateRet, f.updateErr
}

func (f *fakeAuth) ChangePassword(_ context.Context, current, next []byte) error {
	f.passCurrent, f.passNext = string(current), string(next)
	return f.passErr
}

func (f *fakeAuth) TokenInfo(context.Context) (services.TokenInfo, error) {
	return f.tokenInfo, f.tokenErr
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

// fakeDirectory implements services.DirectoryService.
type fakeDirectory struct {
	users      []models.User
	products   []models.Product
	tickets    []models.Ticket
	sales      []models.Sale
	promotions []models.Promotion
	balance    models.AccountBalance
	err        error

	role models.Role
}

func (f *fakeDirectory) Users(_ context.Context, role models.Role) ([]models.User, error) {
	f.role = role
	return f.users, f.err
}
func (f *fakeDirectory) Products(context.Context) ([]models.Product, error) { return f.products, f.err }
func (f *fakeDirectory) Tickets(context.Context) ([]models.Ticket, error)   { return f.tickets, f.err }
func (f *fakeDirectory) Sales(context.Context) ([]models.Sale, error)       { return f.sales, f.err }
func (f *fakeDirectory) Promotions(context.Context) ([]models.Promotion, error) {
	return f.promotions, f.err
}
func (f *fakeDirectory) Balance(context.Context) (models.AccountBalance, error) {
	return f.balance, f.err
}

// fakeMonitor implements sessionMonitor.
type fakeMonitor struct {
	mu       sync.Mutex
	state    session.State
	startErr error
	starts   int
	touches  []session.Signal
	reasons  []session.Reason
	stops    int
}

func (f *fakeMonitor) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		f.state = session.StateExpired
		return f.startErr
	}
	f.state = session.StateActive
	return nil
}

func (f *fakeMonitor) Touch(sig session.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches = append(f.touches, sig)
}

func (f *fakeMonitor) Expire(reason session.Reason) {
	f.mu.Lock()
	f.state = session.StateExpired
	f.reasons = append(f.reasons, reason)
	f.mu.Unlock()
}

func (f *fakeMonitor) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeMonitor) State() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeMonitor) SessionID() string           { return "sess-1" }
func (f *fakeMonitor) Remaining() time.Duration    { return 42 * time.Minute }
func (f *fakeMonitor) IdleTimeout() time.Duration { return time.Hour }

func (f *fakeMonitor) Reasons() []session.Reason {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]session.Reason(nil), f.reasons...)
}

// fakeGuard lets views through with profile unless deny is set.
type fakeGuard struct {
	profile models.Profile
	deny    error
	views   []string
}

func (g *fakeGuard) Run(ctx context.Context, view string, fn func(ctx context.Context, p models.Profile) error) error {
	g.views = append(g.views, view)
	if g.deny != nil {
		return g.deny
	}
	return fn(ctx, g.profile)
}

func (g *fakeGuard) Watch(ctx context.Context) { <-ctx.Done() }

type testApp struct {
	*App
	auth      *fakeAuth
	directory *fakeDirectory
	monitor   *fakeMonitor
	guard     *fakeGuard
	notes     *notify.Recorder
	out       *bytes.Buffer
}

func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	silencePrintln(t)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	ta := &testApp{
		auth:      &fakeAuth{},
		directory: &fakeDirectory{},
		monitor:   &fakeMonitor{},
		guard:     &fakeGuard{profile: alice},
		notes:     &notify.Recorder{},
		out:       &bytes.Buffer{},
	}
	ta.App = &App{
		config:    cfg,
		logger:    logging.Nop(),
		auth:      ta.auth,
		directory: ta.directory,
		monitor:   ta.monitor,
		guard:     ta.guard,
		notifier:  ta.notes,
		reader:    readerFromLines(input...),
		out:       ta.out,
	}
	return ta
}

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 {
		return bufio.NewReader(strings.NewReader(""))
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

var _ viewGuard = (*guard.Guard)(nil)
var _ sessionMonitor = (*session.Monitor)(nil)
