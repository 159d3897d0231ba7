package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Asha@Example.COM ", "Makhana123", "Asha", "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "Makhana123", u.PasswordHash)
	assert.NoError(t, u.CheckPassword("Makhana123"))
	assert.ErrorIs(t, u.CheckPassword("makhana123"), ErrPasswordMismatch)

	_, err = NewUser("not-an-email", "Makhana123", "Asha", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = NewUser("a@b.co", "Makhana123", "  ", "")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = NewUser("a@b.co", "Makhana123", "Asha", "12-34")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestValidatePassword(t *testing.T) {
	cases := map[string]error{
		"Short1":       ErrPasswordTooShort,
		"lowercase1":   ErrPasswordNoUpper,
		"UPPERCASE1":   ErrPasswordNoLower,
		"NoDigitsHere": ErrPasswordNoDigit,
		"Valid1234":    nil,
	}
	for password, want := range cases {
		t.Run(password, func(t *testing.T) {
			err := ValidatePassword(password)
			if want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, want)
		})
	}
}

func TestAddresses_DefaultIsExclusive(t *testing.T) {
	u := &User{}
	home := Address{ID: "a1", Street: "1 Lotus Rd", City: "Patna", State: "BR", ZipCode: "800001", Country: "IN", IsDefault: true}
	work := Address{ID: "a2", Street: "9 Mill St", City: "Darbhanga", State: "BR", ZipCode: "846004", Country: "IN"}
	require.NoError(t, u.AddAddress(home))
	require.NoError(t, u.AddAddress(work))

	def, ok := u.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "a1", def.ID)

	work.IsDefault = true
	require.NoError(t, u.UpdateAddress("a2", work))
	def, _ = u.DefaultAddress()
	assert.Equal(t, "a2", def.ID)
	assert.False(t, u.Addresses[0].IsDefault)

	assert.ErrorIs(t, u.UpdateAddress("missing", work), ErrAddressNotFound)
	assert.ErrorIs(t, u.AddAddress(Address{Street: "x"}), ErrIncompleteAddress)

	require.NoError(t, u.RemoveAddress("a1"))
	assert.Len(t, u.Addresses, 1)
	assert.ErrorIs(t, u.RemoveAddress("a1"), ErrAddressNotFound)
}

func TestWishlist_SetSemantics(t *testing.T) {
	u := &User{}
	changed, err := u.AddToWishlist("p1")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = u.AddToWishlist("p1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"p1"}, u.Wishlist)
	assert.True(t, u.InWishlist("p1"))

	assert.True(t, u.RemoveFromWishlist("p1"))
	assert.False(t, u.RemoveFromWishlist("p1"))
	_, err = u.AddToWishlist(" ")
	assert.ErrorIs(t, err, ErrEmptyProductID)
}

func TestSetRole(t *testing.T) {
	u := &User{Role: RoleCustomer}
	require.NoError(t, u.SetRole("Admin"))
	assert.Equal(t, RoleAdmin, u.Role)
	assert.ErrorIs(t, u.SetRole("root"), ErrInvalidRole)
}
