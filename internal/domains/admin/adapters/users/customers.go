// Package users feeds user counts and contact details into admin reports.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/ports"
	userports "github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
)

var _ ports.Customers = (*Customers)(nil)

type Customers struct {
	users userports.Service
}

func NewCustomers(users userports.Service) *Customers {
	return &Customers{users: users}
}

func (c *Customers) CountUsers(ctx context.Context) (int64, error) {
	return c.users.CountUsers(ctx)
}

func (c *Customers) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	return c.users.CountUsersSince(ctx, since)
}

func (c *Customers) Customer(ctx context.Context, id string) (*ports.Customer, error) {
	u, err := c.users.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			return nil, ports.ErrUnknown
		}
		return nil, err
	}
	return &ports.Customer{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}
