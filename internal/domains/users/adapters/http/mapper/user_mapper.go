package mapper

import (
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/application/types"
	userdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	userports "github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// Address is the JSON shape of a saved address.
type Address struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
	CreatedAt string `json:"createdAt"`
}

// User is the public profile. The password hash never leaves the service.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	IsActive   bool      `json:"isActive"`
	Addresses  []Address `json:"addresses"`
	Wishlist   []string  `json:"wishlist"`
	CreatedAt  string    `json:"createdAt"`
}

// UserList is one page of users for administrators.
type UserList struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message   string `json:"message"`
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// WishlistProduct is a product card on the wishlist.
type WishlistProduct struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Price         float64 `json:"price"`
	Image         *string `json:"image"`
	AverageRating float64 `json:"averageRating"`
	InStock       bool    `json:"inStock"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest carries the editable fields. Other keys are ignored.
type ProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type AddressRequest struct {
	Label     string `json:"label"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func ToRegisterInput(req RegisterRequest) types.RegisterInput {
	return types.RegisterInput{Email: req.Email, Password: req.Password, Name: req.Name, Phone: req.Phone}
}

func ToProfilePatch(req ProfileRequest) types.ProfilePatch {
	return types.ProfilePatch{Name: req.Name, Phone: req.Phone}
}

func ToDomainAddress(req AddressRequest) userdomain.Address {
	return userdomain.Address{
		Label:     req.Label,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}
}

func FromDomainUser(u *userdomain.User) User {
	if u == nil {
		return User{}
	}
	out := User{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		Addresses:  make([]Address, 0, len(u.Addresses)),
		Wishlist:   append([]string{}, u.Wishlist...),
		CreatedAt:  httpx.Timestamp(u.CreatedAt),
	}
	if u.Phone != "" {
		phone := u.Phone
		out.Phone = &phone
	}
	for _, a := range u.Addresses {
		out.Addresses = append(out.Addresses, Address{
			ID:        a.ID,
			Label:     a.Label,
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			ZipCode:   a.ZipCode,
			Country:   a.Country,
			IsDefault: a.IsDefault,
			CreatedAt: httpx.Timestamp(a.CreatedAt),
		})
	}
	return out
}

func FromAuthResult(message string, result *types.AuthResult) AuthResponse {
	return AuthResponse{
		Message:   message,
		User:      FromDomainUser(result.User),
		Token:     result.Token,
		ExpiresAt: httpx.Timestamp(result.ExpiresAt),
	}
}

func FromUserPage(p pagination.Page[*userdomain.User]) UserList {
	mapped := pagination.Map(p, FromDomainUser)
	return UserList{Users: mapped.Items, Total: mapped.Total, Page: mapped.Page, Pages: mapped.Pages}
}

func FromWishlist(products []userports.Product) []WishlistProduct {
	out := make([]WishlistProduct, 0, len(products))
	for _, p := range products {
		item := WishlistProduct{
			ID:            p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			Price:         httpx.Money(p.Price),
			AverageRating: httpx.Money(p.AverageRating),
			InStock:       p.Stock > 0,
		}
		if p.Image != "" {
			image := p.Image
			item.Image = &image
		}
		out = append(out, item)
	}
	return out
}
