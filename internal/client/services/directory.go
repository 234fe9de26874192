package services

import (
	"context"
	"sort"

	"github.com/aydevelopers/adminconsole/internal/client/client"
	"github.com/aydevelopers/adminconsole/internal/client/models"
)

// ProfileLoader yields the signed-in user's cached profile.
type ProfileLoader interface {
	Load(ctx context.Context) (models.Profile, error)
}

// DirectoryService is the read-only side of the console: listings shown by
// the protected views.
type DirectoryService interface {
	Users(ctx context.Context, role models.Role) ([]models.User, error)
	Products(ctx context.Context) ([]models.Product, error)
	Tickets(ctx context.Context) ([]models.Ticket, error)
	Sales(ctx context.Context) ([]models.Sale, error)
	Promotions(ctx context.Context) ([]models.Promotion, error)
	Balance(ctx context.Context) (models.AccountBalance, error)
}

type directoryService struct {
	client  client.Client
	profile ProfileLoader
}

func NewDirectoryService(client client.Client, profile ProfileLoader) DirectoryService {
	return &directoryService{client: client, profile: profile}
}

// Users lists users, optionally only those with role.
func (d *directoryService) Users(ctx context.Context, role models.Role) ([]models.User, error) {
	users, err := d.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if role != "" {
		users = models.FilterByRole(users, role)
	}
	return users, nil
}

func (d *directoryService) Products(ctx context.Context) ([]models.Product, error) {
	return d.client.ListProducts(ctx)
}

// Tickets lists open tickets first, each group newest first.
func (d *directoryService) Tickets(ctx context.Context) ([]models.Ticket, error) {
	tickets, err := d.client.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		oi, oj := tickets[i].Status == models.TicketOpen, tickets[j].Status == models.TicketOpen
		if oi != oj {
			return oi
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func (d *directoryService) Sales(ctx context.Context) ([]models.Sale, error) {
	return d.client.ListSales(ctx)
}

func (d *directoryService) Promotions(ctx context.Context) ([]models.Promotion, error) {
	p, err := d.profile.Load(ctx)
	if err != nil {
		return nil, err
	}
	return d.client.ListPromotions(ctx, p.ID)
}

func (d *directoryService) Balance(ctx context.Context) (models.AccountBalance, error) {
	p, err := d.profile.Load(ctx)
	if err != nil {
		return models.AccountBalance{}, err
	}
	return d.client.AccountBalance(ctx, p.ID)
}
