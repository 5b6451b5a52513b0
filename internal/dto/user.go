package dto

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required"`
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Roles    []string `json:"roles" validate:"required,min=1"`
}

// UpdateUserRequest edits an account. A blank name, empty roles or blank password keep the current value.
type UpdateUserRequest struct {
	// ID is read when the route carries no :id parameter.
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Username   string   `json:"username" validate:"required"`
	Roles      []string `json:"roles"`
	Password   string   `json:"password"`
	ForceReset bool     `json:"forceReset"`
}

// TargetUserRequest names the account an admin action applies to.
type TargetUserRequest struct {
	ID string `json:"id" binding:"required"`
}
