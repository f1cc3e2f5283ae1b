package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/permissions"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
)

func (h *Handler) ListUsers(ctx *gin.Context) {
	p, ok := h.pagination(ctx)
	if !ok {
		return
	}

	users, count, p, err := h.users.List(ctx.Request.Context(), p)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to list users", err)
		return
	}

	writePage(ctx, users, count, p, types.NewUserResponse)
}

func (h *Handler) Me(ctx *gin.Context) {
	caller := utils.GetCaller(ctx)

	user, err := h.users.GetByID(ctx.Request.Context(), caller.ID)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch user", err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

// GetUser is visible to admins and to the user themself.
func (h *Handler) GetUser(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	if !permissions.IsOwnerOrAdmin(utils.GetCaller(ctx), id) {
		utils.PermissionError(ctx, permissions.ErrForbidden)
		return
	}

	user, err := h.users.GetByID(ctx.Request.Context(), id)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch user", err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

func (h *Handler) UpdateMe(ctx *gin.Context) {
	caller := utils.GetCaller(ctx)
	rctx := ctx.Request.Context()

	var req types.UpdateMeRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	user, err := h.users.GetByID(rctx, caller.ID)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch user", err)
		return
	}

	fieldErrors := map[string]string{}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		taken, err := h.users.UsernameTaken(rctx, username, user.ID)

		if err != nil {
			utils.InternalError(ctx, "Database error when checking username", err)
			return
		}

		switch {
		case username == "":
			fieldErrors["username"] = blankField
		case taken:
			fieldErrors["username"] = "A user with that username already exists."
		default:
			user.Username = username
		}
	}

	if req.FirstName != nil {
		if firstName := strings.TrimSpace(*req.FirstName); firstName == "" {
			fieldErrors["first_name"] = blankField
		} else {
			user.FirstName = firstName
		}
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if req.PhoneNumber != nil {
		phone := normalizePhone(req.PhoneNumber)

		if phone != nil {
			taken, err := h.users.PhoneTaken(rctx, *phone, user.ID)

			if err != nil {
				utils.InternalError(ctx, "Database error when checking phone number", err)
				return
			}

			if taken {
				fieldErrors["phone_number"] = "A user with this phone number already exists."
			}
		}

		user.PhoneNumber = phone
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			fieldErrors["current_password"] = "Current password is required to change password."
		} else if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			fieldErrors["current_password"] = "Current password is incorrect."
		} else {
			passwordHash, err := auth.HashPassword(req.NewPassword)

			if err != nil {
				utils.InternalError(ctx, "Failed to hash new password", err)
				return
			}

			user.PasswordHash = passwordHash
		}
	}

	if len(fieldErrors) > 0 {
		utils.ValidationError(ctx, fieldErrors)
		return
	}

	if err := h.users.Update(rctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.ValidationError(ctx, map[string]string{"username": "A user with that username already exists."})
			return
		}
		utils.InternalError(ctx, "Failed to update user", err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}
