package api

import (
	"context"
	"net/http"

	"github.com/voltmart/voltmart/internal/model"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

type loginResponse struct {
	AccessToken string      `json:"accessToken"`
	User        *model.User `json:"user"`
}

// Login exchanges credentials for an access token and the user record.
// identifier may be either email or username.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, *model.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return "", nil, err
	}
	return resp.AccessToken, resp.User, nil
}

// Register creates a new account. It does not authenticate; callers log in
// separately afterwards.
func (c *Client) Register(ctx context.Context, name, email, username, password, phone string) (*model.User, error) {
	var resp struct {
		User *model.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/signup", nil, signupRequest{
		Name:     name,
		Email:    email,
		Username: username,
		Password: password,
		Phone:    phone,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Refresh trades the refresh cookie for a new access token. The bearer
// token plays no part here.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Logout invalidates the refresh cookie server-side
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
