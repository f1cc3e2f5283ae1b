package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/permissions"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
)

// UserLookup loads the account named by a token.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticate resolves an optional bearer access token once per request.
// Requests without an Authorization header continue anonymously; a header
// that does not carry a valid token is rejected with 401.
func Authenticate(tokens *auth.TokenManager, users UserLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.ErrorCode(ctx, http.StatusUnauthorized,
				"Authorization header must contain two space-delimited values: Bearer <token>", types.CodeNotAuthenticated)
			return
		}

		claims, err := tokens.Verify(parts[1], auth.AccessToken)

		if err != nil {
			utils.ErrorCode(ctx, http.StatusUnauthorized, "Given token not valid for any token type", types.CodeTokenNotValid)
			return
		}

		user, err := users.GetByID(ctx.Request.Context(), claims.UserID)

		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.ErrorCode(ctx, http.StatusUnauthorized, "User not found", "user_not_found")
				return
			}
			utils.InternalError(ctx, "Failed to load token user", err)
			return
		}

		utils.SetCaller(ctx, &permissions.Caller{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
		ctx.Next()
	}
}

// Require rejects the request with 401 or 403 unless pred holds for the caller.
func Require(pred permissions.Predicate) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := permissions.Check(utils.GetCaller(ctx), pred); err != nil {
			utils.PermissionError(ctx, err)
			return
		}
		ctx.Next()
	}
}
