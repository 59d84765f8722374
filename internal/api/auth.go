package api

import (
	"context"
	"fmt"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

// Login authenticates with email and password. On success the returned
// token is installed on the client for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp authResponse
	if err := c.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return c.finishAuth(resp)
}

// RegisterEmployee creates a new employee account and logs it in.
func (c *Client) RegisterEmployee(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var resp authResponse
	if err := c.Post(ctx, "/auth/register/employee", in, &resp); err != nil {
		return nil, fmt.Errorf("registering employee: %w", err)
	}

	return c.finishAuth(resp)
}

// RegisterAdmin creates a new admin account and logs it in.
func (c *Client) RegisterAdmin(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var resp authResponse
	if err := c.Post(ctx, "/auth/register/admin", in, &resp); err != nil {
		return nil, fmt.Errorf("registering admin: %w", err)
	}

	return c.finishAuth(resp)
}

// ForgotPassword asks the backend to mail a reset link. Returns the
// backend's acknowledgment message.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}

	var resp messageResponse
	if err := c.Post(ctx, "/auth/forgot-password", body, &resp); err != nil {
		return "", fmt.Errorf("requesting password reset: %w", err)
	}

	return resp.Message, nil
}

// ResetPassword sets a new password using a reset token from the
// forgot-password mail.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{
		"token":    token,
		"password": newPassword,
	}

	if err := c.Post(ctx, "/auth/reset-password", body, nil); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}

	return nil
}

// finishAuth validates the auth response, installs the token, and
// builds the AuthResult.
func (c *Client) finishAuth(resp authResponse) (*AuthResult, error) {
	if resp.Token == "" {
		return nil, fmt.Errorf("backend returned no token")
	}

	role := model.Role(resp.Role)
	if !role.Valid() {
		// Some deployments put the role on the user document instead.
		role = model.Role(resp.User.Role)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("backend returned unknown role %q", resp.Role)
	}

	c.SetToken(resp.Token)

	return &AuthResult{
		Token:   resp.Token,
		Role:    role,
		Profile: resp.User.toProfile(),
	}, nil
}
