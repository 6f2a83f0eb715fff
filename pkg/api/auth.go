package api

import (
	"context"
	"fmt"
)

// LoginInput carries login credentials. Validation tags are enforced by
// the session layer before any network call.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput carries a registration profile. ConfirmPassword is a
// client-side check only and never leaves the process.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=student teacher"`
	Institution     string `json:"institution,omitempty"`
	Grade           string `json:"grade,omitempty"`
}

// AuthResponse is returned by login and registration. Registration may
// auto-authenticate, in which case credentials are present.
type AuthResponse struct {
	Message      string `json:"message,omitempty"`
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/auth/login", in, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/auth/register", in, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

// CurrentUser fetches the identity behind the access credential.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.get(ctx, "/auth/me", &out); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return out.User, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     updated,
	}
	if err := c.put(ctx, "/auth/change-password", body, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
