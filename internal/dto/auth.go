package dto

import "github.com/noah-isme/bw-lms-api/internal/models"

// LoginRequest carries credentials for POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// LoginResponse is returned on successful login. The token is also set as a cookie.
type LoginResponse struct {
	Token             string       `json:"token"`
	MustResetPassword bool         `json:"mustResetPassword"`
	User              UserResponse `json:"user"`
}

// SetPasswordRequest is the self-service password reset payload.
type SetPasswordRequest struct {
	Password string `json:"password" binding:"required" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Username          string   `json:"username"`
	Roles             []string `json:"roles"`
	MustResetPassword bool     `json:"mustResetPassword"`
}

// NewUserResponse strips credentials from a user record.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Username:          user.Username,
		Roles:             user.Roles.Strings(),
		MustResetPassword: user.MustResetPassword,
	}
}
