package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
)

func (h *Handler) tokenPair(ctx *gin.Context, status int, user *models.User) {
	pair, err := h.tokens.Issue(user.ID)

	if err != nil {
		utils.InternalError(ctx, "Failed to issue tokens", err)
		return
	}

	ctx.JSON(status, types.TokenPairResponse{
		User:    types.TokenUser{Username: user.Username, Email: user.Email},
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// registrationRole resolves the requested self-assigned role.
func registrationRole(raw string) (models.Role, bool) {
	if strings.TrimSpace(raw) == "" {
		return models.RoleBuyer, true
	}

	role, err := models.ParseRole(raw)
	if err != nil || role == models.RoleAdmin {
		return "", false
	}

	return role, true
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var req types.RegisterRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	role, ok := registrationRole(req.Role)

	if !ok {
		utils.ValidationError(ctx, map[string]string{"role": "Role must be seller or buyer."})
		return
	}

	username, ok := notBlank(ctx, "username", req.Username)
	if !ok {
		return
	}
	firstName, ok := notBlank(ctx, "first_name", req.FirstName)
	if !ok {
		return
	}

	rctx := ctx.Request.Context()
	phone := normalizePhone(req.PhoneNumber)

	taken, err := h.users.UsernameTaken(rctx, username, 0)

	if err != nil {
		utils.InternalError(ctx, "Database error when checking existing user", err)
		return
	}

	if taken {
		utils.ValidationError(ctx, map[string]string{"username": "A user with that username already exists."})
		return
	}

	if phone != nil {
		taken, err = h.users.PhoneTaken(rctx, *phone, 0)

		if err != nil {
			utils.InternalError(ctx, "Database error when checking phone number", err)
			return
		}

		if taken {
			utils.ValidationError(ctx, map[string]string{"phone_number": "A user with this phone number already exists."})
			return
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)

	if err != nil {
		utils.InternalError(ctx, "Failed to hash password", err)
		return
	}

	user := models.User{
		Username:     username,
		FirstName:    firstName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  phone,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := h.users.Create(rctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.ValidationError(ctx, map[string]string{"username": "A user with that username already exists."})
			return
		}
		utils.InternalError(ctx, "Failed to create user", err)
		return
	}

	h.tokenPair(ctx, http.StatusCreated, &user)
}

// LoginUser serves both /auth/login/ and /api/token/.
func (h *Handler) LoginUser(ctx *gin.Context) {
	var req types.LoginRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	user, err := h.users.GetByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
			return
		}
		utils.InternalError(ctx, "Database error when fetching user", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.tokenPair(ctx, http.StatusOK, user)
}

// LogoutUser blacklists the caller's refresh token.
func (h *Handler) LogoutUser(ctx *gin.Context) {
	caller := utils.GetCaller(ctx)

	var req types.RefreshRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	claims, err := h.tokens.Verify(req.Refresh, auth.RefreshToken)

	if err != nil || claims.UserID != caller.ID {
		utils.ErrorCode(ctx, http.StatusBadRequest, "Token is invalid or expired", types.CodeTokenNotValid)
		return
	}

	if err := h.tokens.Revoke(ctx.Request.Context(), claims); err != nil {
		if errors.Is(err, auth.ErrTokenBlacklisted) {
			utils.ErrorCode(ctx, http.StatusBadRequest, "Token is blacklisted", types.CodeTokenBlacklisted)
			return
		}
		utils.InternalError(ctx, "Failed to blacklist token", err)
		return
	}

	ctx.Status(http.StatusResetContent)
}

func (h *Handler) RefreshToken(ctx *gin.Context) {
	var req types.RefreshRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	access, err := h.tokens.Refresh(ctx.Request.Context(), req.Refresh)

	if err != nil {
		tokenError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.AccessResponse{Access: access})
}

func (h *Handler) BlacklistToken(ctx *gin.Context) {
	var req types.RefreshRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	if _, err := h.tokens.Blacklist(ctx.Request.Context(), req.Refresh); err != nil {
		tokenError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{})
}

func tokenError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrTokenBlacklisted):
		utils.ErrorCode(ctx, http.StatusUnauthorized, "Token is blacklisted", types.CodeTokenBlacklisted)
	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrWrongTokenType):
		utils.ErrorCode(ctx, http.StatusUnauthorized, "Token is invalid or expired", types.CodeTokenNotValid)
	default:
		utils.InternalError(ctx, "Token operation failed", err)
	}
}
