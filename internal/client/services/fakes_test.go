package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aydevelopers/adminconsole/internal/client/credcache"
	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/storage"
	"github.com/aydevelopers/adminconsole/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newCache(t *testing.T) (*credcache.Cache, *storage.SQLiteStore) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.RunMigrations(context.Background(), db))
	st := storage.NewSQLiteStore(db)
	return credcache.New(st, "test-secret", logging.Nop()), st
}

// fakeClient implements client.Client and records the arguments it sees.
type fakeClient struct {
	SignInRet models.SignInResponse
	SignInErr error
	SignUpErr error
	UserRet   models.User
	UserErr   error
	UpdateRet models.User
	UpdateErr error
	PassErr   error
	PingErr   error

	Users      []models.User
	Products   []models.Product
	Tickets    []models.Ticket
	Sales      []models.Sale
	Promotions []models.Promotion
	Balance    models.AccountBalance
	ListErr    error

	LastSignIn     models.SignInRequest
	LastSignUp     models.SignUpRequest
	LastGetUserID  string
	LastUpdateID   string
	LastUpdate     models.ProfileUpdate
	LastPassUserID string
	LastPass       models.PasswordChange
	LastPromoUser  string
	LastBalance    string
}

func (f *fakeClient) SignIn(_ context.Context, req models.SignInRequest) (models.SignInResponse, error) {
	f.LastSignIn = req
	return f.SignInRet, f.SignInErr
}

func (f *fakeClient) SignUp(_ context.Context, req models.SignUpRequest) error {
	f.LastSignUp = req
	return f.SignUpErr
}

func (f *fakeClient) GetUser(_ context.Context, id string) (models.User, error) {
	f.LastGetUserID = id
	return f.UserRet, f.UserErr
}

func (f *fakeClient) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate) (models.User, error) {
	f.LastUpdateID = id
	f.LastUpdate = upd
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) SetPassword(_ context.Context, id string, change models.PasswordChange) error {
	f.LastPassUserID = id
	f.LastPass = change
	return f.PassErr
}

func (f *fakeClient) ListUsers(context.Context) ([]models.User, error) { return f.Users, f.ListErr }
func (f *fakeClient) ListProducts(context.Context) ([]models.Product, error) {
	return f.Products, f.ListErr
}
func (f *fakeClient) ListTickets(context.Context) ([]models.Ticket, error) { return f.Tickets, f.ListErr }
func (f *fakeClient) ListSales(context.Context) ([]models.Sale, error)     { return f.Sales, f.ListErr }

func (f *fakeClient) ListPromotions(_ context.Context, userID string) ([]models.Promotion, error) {
	f.LastPromoUser = userID
	return f.Promotions, f.ListErr
}

func (f *fakeClient) AccountBalance(_ context.Context, userID string) (models.AccountBalance, error) {
	f.LastBalance = userID
	return f.Balance, f.ListErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }
