package mapper

import (
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

type Review struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	ProductID   string `json:"productId"`
	Rating      int    `json:"rating"`
	Title       string `json:"title"`
	Comment     string `json:"comment"`
	IsVerified  bool   `json:"isVerified"`
	Helpful     int    `json:"helpful"`
	UserName    string `json:"userName,omitempty"`
	ProductName string `json:"productName,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type ReviewList struct {
	Reviews []Review `json:"reviews"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
}

type CreateRequest struct {
	ProductID  string `json:"productId" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Title      string `json:"title"`
	Comment    string `json:"comment"`
	IsVerified bool   `json:"isVerified"`
}

type UpdateRequest struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

func ToReviewInput(req CreateRequest) types.ReviewInput {
	return types.ReviewInput{
		ProductID:  req.ProductID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
		IsVerified: req.IsVerified,
	}
}

func ToReviewPatch(req UpdateRequest) types.ReviewPatch {
	return types.ReviewPatch{Rating: req.Rating, Title: req.Title, Comment: req.Comment}
}

func FromDomainReview(r *domain.Review) Review {
	if r == nil {
		return Review{}
	}
	return Review{
		ID:         r.ID,
		UserID:     r.UserID,
		ProductID:  r.ProductID,
		Rating:     r.Rating,
		Title:      r.Title,
		Comment:    r.Comment,
		IsVerified: r.IsVerified,
		Helpful:    r.Helpful,
		CreatedAt:  httpx.Timestamp(r.CreatedAt),
		UpdatedAt:  httpx.Timestamp(r.UpdatedAt),
	}
}

func FromReviewPage(p pagination.Page[types.ReviewView]) ReviewList {
	mapped := pagination.Map(p, func(v types.ReviewView) Review {
		out := FromDomainReview(v.Review)
		out.UserName = v.UserName
		out.ProductName = v.ProductName
		return out
	})
	return ReviewList{Reviews: mapped.Items, Total: mapped.Total, Page: mapped.Page, Pages: mapped.Pages}
}
