package domain

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles a user can hold.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrEmptyName          = errors.New("name is required")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidPhone       = errors.New("invalid phone number format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper    = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLower    = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoDigit    = errors.New("password must contain at least one number")
	ErrInvalidRole        = errors.New("invalid role")
	ErrIncompleteAddress  = errors.New("street, city, state, zipCode and country are required")
	ErrAddressNotFound    = errors.New("address not found")
	ErrEmptyProductID     = errors.New("product id is required")
	ErrPasswordMismatch   = errors.New("password does not match")
	ErrPasswordHashFailed = errors.New("password could not be hashed")
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// PasswordCost is the bcrypt cost used for new hashes.
var PasswordCost = bcrypt.DefaultCost

// Address is a saved delivery address.
type Address struct {
	ID        string
	Label     string
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	IsDefault bool
	CreatedAt time.Time
}

// User is a registered customer or administrator.
type User struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         string
	IsVerified   bool
	IsActive     bool
	Addresses    []Address
	Wishlist     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates the registration fields and hashes the password.
func NewUser(email, password, name, phone string) (*User, error) {
	u := &User{Role: RoleCustomer, IsActive: true}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(name, phone); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetEmail normalizes and validates the email.
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// UpdateProfile sets the display name and the optional phone number.
func (u *User) UpdateProfile(name, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	phone = strings.TrimSpace(phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	u.Name = name
	u.Phone = phone
	return nil
}

// ValidatePassword enforces the password strength rules.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	switch {
	case !upper:
		return ErrPasswordNoUpper
	case !lower:
		return ErrPasswordNoLower
	case !digit:
		return ErrPasswordNoDigit
	}
	return nil
}

// SetPassword validates password strength and stores its bcrypt hash.
func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return errors.Join(ErrPasswordHashFailed, err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares password with the stored hash.
func (u *User) CheckPassword(password string) error {
	if u.PasswordHash == "" || password == "" {
		return ErrPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// SetRole changes the user's role.
func (u *User) SetRole(role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}

// Normalize trims the address fields.
func (a *Address) Normalize() {
	a.Label = strings.TrimSpace(a.Label)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
}

// Validate requires every postal field.
func (a Address) Validate() error {
	if a.Street == "" || a.City == "" || a.State == "" || a.ZipCode == "" || a.Country == "" {
		return ErrIncompleteAddress
	}
	return nil
}

// AddAddress appends addr. A default address clears the flag on the others.
func (u *User) AddAddress(addr Address) error {
	addr.Normalize()
	if err := addr.Validate(); err != nil {
		return err
	}
	if addr.IsDefault {
		u.clearDefault()
	}
	u.Addresses = append(u.Addresses, addr)
	return nil
}

// UpdateAddress replaces the postal fields of the address with id.
func (u *User) UpdateAddress(id string, addr Address) error {
	idx := u.addressIndex(id)
	if idx < 0 {
		return ErrAddressNotFound
	}
	addr.Normalize()
	if err := addr.Validate(); err != nil {
		return err
	}
	if addr.IsDefault {
		u.clearDefault()
	}
	addr.ID = u.Addresses[idx].ID
	addr.CreatedAt = u.Addresses[idx].CreatedAt
	u.Addresses[idx] = addr
	return nil
}

// RemoveAddress deletes the address with id.
func (u *User) RemoveAddress(id string) error {
	idx := u.addressIndex(id)
	if idx < 0 {
		return ErrAddressNotFound
	}
	u.Addresses = slices.Delete(u.Addresses, idx, idx+1)
	return nil
}

// DefaultAddress returns the default address, if any.
func (u *User) DefaultAddress() (Address, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

func (u *User) addressIndex(id string) int {
	return slices.IndexFunc(u.Addresses, func(a Address) bool { return a.ID == id })
}

func (u *User) clearDefault() {
	for i := range u.Addresses {
		u.Addresses[i].IsDefault = false
	}
}

// AddToWishlist adds productID once. It reports whether the list changed.
func (u *User) AddToWishlist(productID string) (bool, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, ErrEmptyProductID
	}
	if slices.Contains(u.Wishlist, productID) {
		return false, nil
	}
	u.Wishlist = append(u.Wishlist, productID)
	return true, nil
}

// RemoveFromWishlist drops productID. It reports whether the list changed.
func (u *User) RemoveFromWishlist(productID string) bool {
	before := len(u.Wishlist)
	u.Wishlist = slices.DeleteFunc(u.Wishlist, func(id string) bool { return id == productID })
	return len(u.Wishlist) != before
}

// InWishlist reports whether productID is wishlisted.
func (u *User) InWishlist(productID string) bool {
	return slices.Contains(u.Wishlist, productID)
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Addresses = slices.Clone(u.Addresses)
	c.Wishlist = slices.Clone(u.Wishlist)
	return &c
}
