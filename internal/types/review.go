package types

import (
	"time"

	"github.com/monocle-dev/house/internal/models"
)

type ReviewResponse struct {
	ID        uint         `json:"id"`
	Author    UserResponse `json:"author"`
	Seller    UserResponse `json:"seller"`
	Rating    uint8        `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Author:    NewUserResponse(r.Author),
		Seller:    NewUserResponse(r.Seller),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

type ReviewCreateRequest struct {
	Seller  uint   `json:"seller" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}
