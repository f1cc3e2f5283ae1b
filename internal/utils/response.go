package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/permissions"
	"github.com/monocle-dev/house/internal/query"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/types"
)

func Error(ctx *gin.Context, status int, detail string) {
	ctx.AbortWithStatusJSON(status, types.ErrorResponse{Detail: detail})
}

func ErrorCode(ctx *gin.Context, status int, detail, code string) {
	ctx.AbortWithStatusJSON(status, types.ErrorResponse{Detail: detail, Code: code})
}

// ValidationError replies 400 with per-field messages.
func ValidationError(ctx *gin.Context, fields map[string]string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{
		Detail: "Invalid input.",
		Code:   types.CodeInvalid,
		Errors: fields,
	})
}

func NotFound(ctx *gin.Context) {
	Error(ctx, http.StatusNotFound, "Not found.")
}

func InternalError(ctx *gin.Context, msg string, err error) {
	log.Printf("%s: %v", msg, err)
	Error(ctx, http.StatusInternalServerError, "Internal server error")
}

// PermissionError maps a permissions sentinel to 401 or 403.
func PermissionError(ctx *gin.Context, err error) {
	if errors.Is(err, permissions.ErrUnauthenticated) {
		ErrorCode(ctx, http.StatusUnauthorized, err.Error(), types.CodeNotAuthenticated)
		return
	}
	ErrorCode(ctx, http.StatusForbidden, permissions.ErrForbidden.Error(), types.CodePermissionDenied)
}

// RepositoryError maps repository and query sentinels to responses; anything
// else is logged and reported as 500.
func RepositoryError(ctx *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(ctx)
	case errors.Is(err, repository.ErrProtected):
		ErrorCode(ctx, http.StatusConflict,
			"Cannot delete this object because other records still reference it.", types.CodeProtected)
	case errors.Is(err, query.ErrInvalidPage):
		Error(ctx, http.StatusNotFound, query.ErrInvalidPage.Error())
	default:
		InternalError(ctx, msg, err)
	}
}
