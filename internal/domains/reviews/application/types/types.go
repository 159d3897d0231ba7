package types

import "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"

type ReviewInput struct {
	ProductID  string
	Rating     int
	Title      string
	Comment    string
	IsVerified bool
}

// ReviewPatch updates only the fields that are set.
type ReviewPatch struct {
	Rating  *int
	Title   *string
	Comment *string
}

// ReviewView is a review with the display names listings show beside it.
type ReviewView struct {
	Review      *domain.Review
	UserName    string
	ProductName string
}
