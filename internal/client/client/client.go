package client

import (
	"context"

	"github.com/aydevelopers/adminconsole/internal/client/models"
)

type Client interface {
	SignIn(ctx context.Context, req models.SignInRequest) (models.SignInResponse, error)
	SignUp(ctx context.Context, req models.SignUpRequest) error
	GetUser(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.User, error)
	SetPassword(ctx context.Context, userID string, change models.PasswordChange) error
	ListUsers(ctx context.Context) ([]models.User, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	ListPromotions(ctx context.Context, userID string) ([]models.Promotion, error)
	AccountBalance(ctx context.Context, userID string) (models.AccountBalance, error)
	Ping(ctx context.Context) error
}

// Endpoints are backend paths relative to the base URL. Paths ending in "/"
// take a user id suffix.
type Endpoints struct {
	SignIn         string
	SignUp         string
	UserData       string
	UserUpdate     string
	SetPassword    string
	GetUsers       string
	GetProducts    string
	GetTickets     string
	GetSales       string
	GetPromotions  string
	AccountBalance string
	Ping           string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		SignIn:         "/api/auth/signin",
		SignUp:         "/api/auth/signup",
		UserData:       "/api/auth/user/",
		UserUpdate:     "/api/auth/user/update",
		SetPassword:    "/api/auth/set-password/",
		GetUsers:       "/api/auth/users",
		GetProducts:    "/api/products",
		GetTickets:     "/api/tickets",
		GetSales:       "/api/sales",
		GetPromotions:  "/api/promotions/",
		AccountBalance: "/api/account/balance/",
		Ping:           "/api/health",
	}
}
