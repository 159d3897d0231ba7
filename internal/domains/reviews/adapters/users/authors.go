// Package users resolves reviewer names through the users service.
package users

import (
	"context"
	"errors"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
)

// NameResolver is the slice of the users service reviews depend on.
type NameResolver interface {
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

var _ ports.Authors = (*Authors)(nil)

type Authors struct {
	users NameResolver
}

func NewAuthors(users NameResolver) *Authors {
	return &Authors{users: users}
}

func (a *Authors) Names(ctx context.Context, userIDs []string) (map[string]string, error) {
	if a == nil || a.users == nil {
		return nil, errors.New("review authors not configured")
	}
	unique := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return a.users.Names(ctx, unique)
}
