package dto

import "stockatelier/internal/permissions"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionUser is the identity echoed by /api/auth/check.
type SessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type CheckResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
}

type PermissionsResponse struct {
	Role        string                   `json:"role"`
	Username    string                   `json:"username"`
	Permissions permissions.Capabilities `json:"permissions"`
}
