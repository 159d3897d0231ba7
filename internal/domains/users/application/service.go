package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const DefaultPageSize = 20

// Service implements registration, token-based sessions and the
// customer profile.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   ports.Tokens
	catalog  ports.Catalog
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the users context. A nil session store makes logout a no-op.
func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.Tokens, catalog ports.Catalog, opts ...Option) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	s := &Service{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		catalog:  catalog,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	user, err := domain.NewUser(input.Email, input.Password, input.Name, input.Phone)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, created)
}

// Login verifies the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*types.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ports.ErrInvalidCredentials
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := user.CheckPassword(password); err != nil {
		return nil, ports.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ports.ErrInactive
	}
	return s.issue(ctx, user)
}

func (s *Service) issue(ctx context.Context, user *domain.User) (*types.AuthResult, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Role, s.now())
	if err != nil {
		return nil, err
	}
	session := ports.Session{TokenID: claims.TokenID, UserID: user.ID, ExpiresAt: claims.ExpiresAt}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &types.AuthResult{User: user, Token: token, ExpiresAt: claims.ExpiresAt}, nil
}

// Authenticate resolves a bearer token into the caller. The role is read
// from the stored user so role changes apply to tokens already issued.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Principal{}, ports.ErrInvalidToken
	}
	active, err := s.sessions.Active(ctx, claims.TokenID, s.now())
	if err != nil {
		return auth.Principal{}, err
	}
	if !active {
		return auth.Principal{}, ports.ErrInvalidToken
	}
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return auth.Principal{}, ports.ErrInvalidToken
		}
		return auth.Principal{}, err
	}
	if !user.IsActive {
		return auth.Principal{}, ports.ErrInactive
	}
	return auth.Principal{UserID: user.ID, Role: user.Role, TokenID: claims.TokenID}, nil
}

// Logout revokes the session behind tokenID.
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, tokenID)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, patch types.ProfilePatch) (*domain.User, error) {
	return s.mutate(ctx, userID, func(u *domain.User) error {
		name, phone := u.Name, u.Phone
		if patch.Name != nil {
			name = *patch.Name
		}
		if patch.Phone != nil {
			phone = *patch.Phone
		}
		return u.UpdateProfile(name, phone)
	})
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	_, err := s.mutate(ctx, userID, func(u *domain.User) error {
		if err := u.CheckPassword(current); err != nil {
			return ports.ErrWrongPassword
		}
		return u.SetPassword(next)
	})
	return err
}

func (s *Service) AddAddress(ctx context.Context, userID string, addr domain.Address) (*domain.User, error) {
	addr.ID = uuid.NewString()
	addr.CreatedAt = s.now().UTC()
	return s.mutate(ctx, userID, func(u *domain.User) error {
		return u.AddAddress(addr)
	})
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, addr domain.Address) (*domain.User, error) {
	return s.mutate(ctx, userID, func(u *domain.User) error {
		return u.UpdateAddress(addressID, addr)
	})
}

func (s *Service) RemoveAddress(ctx context.Context, userID, addressID string) (*domain.User, error) {
	return s.mutate(ctx, userID, func(u *domain.User) error {
		return u.RemoveAddress(addressID)
	})
}

// AddToWishlist adds an existing product once.
func (s *Service) AddToWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, mapError(domain.ErrEmptyProductID)
	}
	if _, err := s.catalog.Product(ctx, productID); err != nil {
		return nil, err
	}
	user, err := s.mutate(ctx, userID, func(u *domain.User) error {
		_, err := u.AddToWishlist(productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	user, err := s.mutate(ctx, userID, func(u *domain.User) error {
		u.RemoveFromWishlist(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

// Wishlist resolves the wishlisted products, skipping ones since removed
// from the catalog.
func (s *Service) Wishlist(ctx context.Context, userID string) ([]ports.Product, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := make([]ports.Product, 0, len(user.Wishlist))
	for _, id := range user.Wishlist {
		product, err := s.catalog.Product(ctx, id)
		if err != nil {
			if errors.Is(err, ports.ErrProductNotFound) {
				s.logger.LogAttrs(ctx, slog.LevelDebug, "wishlisted product missing",
					slog.String("user.id", userID), slog.String("product.id", id))
				continue
			}
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (s *Service) InWishlist(ctx context.Context, userID, productID string) (bool, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.InWishlist(productID), nil
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) (pagination.Page[*domain.User], error) {
	return s.repo.List(ctx, pagination.New(page, limit, DefaultPageSize))
}

func (s *Service) UpdateRole(ctx context.Context, userID, role string) (*domain.User, error) {
	return s.mutate(ctx, userID, func(u *domain.User) error {
		return u.SetRole(role)
	})
}

func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, time.Time{})
}

func (s *Service) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	return s.repo.Count(ctx, since)
}

// Names maps user ids to display names.
func (s *Service) Names(ctx context.Context, ids []string) (map[string]string, error) {
	return s.repo.Names(ctx, ids)
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*domain.User) error) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	now := s.now().UTC()
	user, err := s.repo.Update(ctx, userID, func(u *domain.User) error {
		if err := fn(u); err != nil {
			return err
		}
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

var _ ports.Service = (*Service)(nil)
