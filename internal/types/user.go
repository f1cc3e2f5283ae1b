package types

import "github.com/monocle-dev/house/internal/models"

type UserResponse struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	FirstName   string      `json:"first_name"`
	Email       string      `json:"email"`
	PhoneNumber *string     `json:"phone_number"`
	Role        models.Role `json:"role"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

type RegisterRequest struct {
	FirstName   string  `json:"first_name" binding:"required,max=150"`
	Username    string  `json:"username" binding:"required,max=150"`
	Email       string  `json:"email" binding:"required,email,max=254"`
	Password    string  `json:"password" binding:"required,min=8"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=32"`
	Role        string  `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeRequest struct {
	Username        *string `json:"username" binding:"omitempty,min=1,max=150"`
	FirstName       *string `json:"first_name" binding:"omitempty,max=150"`
	Email           *string `json:"email" binding:"omitempty,email,max=254"`
	PhoneNumber     *string `json:"phone_number" binding:"omitempty,max=32"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" binding:"omitempty,min=8"`
}

type TokenUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenPairResponse struct {
	User    TokenUser `json:"user"`
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type AccessResponse struct {
	Access string `json:"access"`
}
