package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
)

func (h *Handler) ListReviews(ctx *gin.Context) {
	sellerID, ok := parentFilter(ctx, "seller")
	if !ok {
		return
	}

	p, ok := h.pagination(ctx)
	if !ok {
		return
	}

	reviews, count, p, err := h.reviews.List(ctx.Request.Context(), sellerID, p)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to list reviews", err)
		return
	}

	writePage(ctx, reviews, count, p, types.NewReviewResponse)
}

// CreateReview records a buyer's review of a seller.
func (h *Handler) CreateReview(ctx *gin.Context) {
	caller := utils.GetCaller(ctx)
	rctx := ctx.Request.Context()

	var req types.ReviewCreateRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	seller, err := h.users.GetByID(rctx, req.Seller)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.ValidationError(ctx, map[string]string{"seller": "Invalid pk - object does not exist."})
		return
	case err != nil:
		utils.InternalError(ctx, "Failed to fetch seller", err)
		return
	case seller.ID == caller.ID:
		utils.ValidationError(ctx, map[string]string{"seller": "You cannot review yourself."})
		return
	case seller.Role != models.RoleSeller:
		utils.ValidationError(ctx, map[string]string{"seller": "The selected user is not a seller."})
		return
	}

	review := models.Review{
		AuthorID: caller.ID,
		SellerID: seller.ID,
		Rating:   uint8(req.Rating),
		Comment:  strings.TrimSpace(req.Comment),
	}

	if err := h.reviews.Create(rctx, &review); err != nil {
		utils.RepositoryError(ctx, "Failed to create review", err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewReviewResponse(review))
}
