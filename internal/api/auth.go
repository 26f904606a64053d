package api

import (
	"context"
	"net/http"
)

// --- Auth Methods ---

// Register creates a new account. The server returns the created user.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*User, error) {
	data, err := c.post(ctx, "/auth/register", input, failureText{fallback: "could not register"})
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	data, err := c.post(ctx, "/auth/login", creds, failureText{
		fallback: "could not log in",
		byStatus: map[int]string{http.StatusUnauthorized: MsgInvalidCredentials},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

// ForgotPassword asks the server to send a reset token to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*Ack, error) {
	body := map[string]string{"email": email}
	data, err := c.post(ctx, "/auth/forgot-password", body, failureText{
		fallback: "could not request password reset",
		byStatus: map[int]string{http.StatusNotFound: MsgEmailNotFound},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[Ack](data)
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, input ResetPasswordInput) (*Ack, error) {
	data, err := c.post(ctx, "/auth/reset-password", input, failureText{fallback: "could not reset password"})
	if err != nil {
		return nil, err
	}
	return decodeOne[Ack](data)
}
