package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/token"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

func init() {
	domain.PasswordCost = bcrypt.MinCost
}

type fakeCatalog map[string]ports.Product

func (f fakeCatalog) Product(_ context.Context, id string) (*ports.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return &p, nil
}

func newTestService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	signer, err := token.New("test-secret", time.Hour)
	require.NoError(t, err)
	repo := memory.NewRepository()
	catalog := fakeCatalog{
		"p1": {ID: "p1", Name: "Classic Makhana", Price: decimal.RequireFromString("10")},
		"p2": {ID: "p2", Name: "Peri Peri Makhana", Price: decimal.RequireFromString("12")},
	}
	return NewService(repo, memory.NewSessionStore(), signer, catalog), repo
}

func register(t *testing.T, svc *Service, email string) *types.AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), types.RegisterInput{
		Email: email, Password: "Makhana123", Name: "Asha", Phone: "+919876543210",
	})
	require.NoError(t, err)
	return result
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered := register(t, svc, "Asha@Example.com")
	assert.Equal(t, "asha@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)

	_, err := svc.Register(ctx, types.RegisterInput{Email: "asha@example.com", Password: "Makhana123", Name: "Again"})
	assert.ErrorIs(t, err, ports.ErrEmailTaken)
	assert.ErrorIs(t, err, errkind.DuplicateKey)

	_, err = svc.Register(ctx, types.RegisterInput{Email: "ravi@example.com", Password: "weak", Name: "Ravi"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = svc.Login(ctx, "asha@example.com", "Wrong1234")
	assert.ErrorIs(t, err, errkind.Unauthenticated)
	_, err = svc.Login(ctx, "nobody@example.com", "Makhana123")
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)

	loggedIn, err := svc.Login(ctx, " ASHA@example.com ", "Makhana123")
	require.NoError(t, err)
	principal, err := svc.Authenticate(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, principal.UserID)
	assert.Equal(t, auth.RoleCustomer, principal.Role)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	result := register(t, svc, "asha@example.com")

	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, principal.TokenID))

	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ports.ErrInvalidToken)
	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, errkind.Unauthenticated)
}

func TestAuthenticate_ReadsCurrentRoleAndStatus(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	result := register(t, svc, "asha@example.com")

	_, err := svc.UpdateRole(ctx, result.User.ID, "admin")
	require.NoError(t, err)
	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.True(t, principal.IsAdmin())

	_, err = repo.Update(ctx, result.User.ID, func(u *domain.User) error {
		u.IsActive = false
		return nil
	})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ports.ErrInactive)
	_, err = svc.Login(ctx, "asha@example.com", "Makhana123")
	assert.ErrorIs(t, err, errkind.Unauthorized)

	_, err = svc.UpdateRole(ctx, result.User.ID, "root")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProfileAndPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "asha@example.com").User.ID

	name := "Asha Kumari"
	updated, err := svc.UpdateProfile(ctx, id, types.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha Kumari", updated.Name)
	assert.Equal(t, "+919876543210", updated.Phone)

	bad := "12"
	_, err = svc.UpdateProfile(ctx, id, types.ProfilePatch{Phone: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)

	assert.ErrorIs(t, svc.ChangePassword(ctx, id, "Wrong1234", "Lotus5678"), ports.ErrWrongPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, id, "Makhana123", "short"), ErrInvalidInput)
	require.NoError(t, svc.ChangePassword(ctx, id, "Makhana123", "Lotus5678"))

	_, err = svc.Login(ctx, "asha@example.com", "Makhana123")
	assert.Error(t, err)
	_, err = svc.Login(ctx, "asha@example.com", "Lotus5678")
	assert.NoError(t, err)
}

func TestAddresses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "asha@example.com").User.ID
	home := domain.Address{Street: "1 Lotus Rd", City: "Patna", State: "BR", ZipCode: "800001", Country: "IN", IsDefault: true}

	user, err := svc.AddAddress(ctx, id, home)
	require.NoError(t, err)
	require.Len(t, user.Addresses, 1)
	first := user.Addresses[0].ID
	assert.NotEmpty(t, first)

	work := home
	work.Street = "9 Mill St"
	user, err = svc.AddAddress(ctx, id, work)
	require.NoError(t, err)
	def, _ := user.DefaultAddress()
	assert.Equal(t, "9 Mill St", def.Street)

	_, err = svc.UpdateAddress(ctx, id, "missing", home)
	assert.ErrorIs(t, err, ports.ErrAddressNotFound)
	assert.ErrorIs(t, err, errkind.NotFound)

	user, err = svc.RemoveAddress(ctx, id, first)
	require.NoError(t, err)
	assert.Len(t, user.Addresses, 1)
}

func TestWishlist(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "asha@example.com").User.ID

	list, err := svc.AddToWishlist(ctx, id, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, list)
	list, err = svc.AddToWishlist(ctx, id, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, list)

	_, err = svc.AddToWishlist(ctx, id, "ghost")
	assert.ErrorIs(t, err, ports.ErrProductNotFound)

	_, err = svc.AddToWishlist(ctx, id, "p2")
	require.NoError(t, err)
	products, err := svc.Wishlist(ctx, id)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Classic Makhana", products[0].Name)

	in, err := svc.InWishlist(ctx, id, "p2")
	require.NoError(t, err)
	assert.True(t, in)

	list, err = svc.RemoveFromWishlist(ctx, id, "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, list)
}

func TestListUsersAndNames(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a := register(t, svc, "asha@example.com").User.ID
	register(t, svc, "ravi@example.com")

	page, err := svc.ListUsers(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Pages)

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	names, err := svc.Names(ctx, []string{a, "unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{a: "Asha"}, names)
}
