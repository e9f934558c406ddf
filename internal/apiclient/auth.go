package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

// ErrNoToken means a successful auth response carried no access token.
var ErrNoToken = errors.New("auth response has no access token")

// Login exchanges credentials for a token, stores it, and returns the
// identity. Bad credentials come back as an *APIError and leave the stored
// token untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var resp model.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, model.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c.establish(ctx, &resp, model.User{Email: email})
}

// Register creates an account and signs in. If the server answers with the
// new user but no token, Register logs in with the same credentials.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if resp.AccessToken == "" {
		c.Logger.Debug("register returned no token; logging in")
		return c.Login(ctx, req.Email, req.Password)
	}
	return c.establish(ctx, &resp, model.User{Username: req.Username, Email: req.Email})
}

// OAuthURL returns the provider authorization URL ("google" or "github").
func (c *Client) OAuthURL(ctx context.Context, provider string) (string, error) {
	var resp model.OAuthURL
	if err := c.do(ctx, http.MethodGet, "/auth/oauth/"+segment(provider), nil, nil, &resp); err != nil {
		return "", fmt.Errorf("oauth url: %w", err)
	}
	return resp.AuthURL, nil
}

// OAuthCallback completes a provider sign-in with the authorization code.
func (c *Client) OAuthCallback(ctx context.Context, provider, code string) (*model.User, error) {
	var resp model.AuthResponse
	path := "/auth/oauth/" + segment(provider) + "/callback"
	if err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"code": code}, &resp); err != nil {
		return nil, fmt.Errorf("oauth callback: %w", err)
	}
	return c.establish(ctx, &resp, model.User{})
}

// establish stores the token and fetches the identity. A failed identity
// fetch does not undo the sign-in unless the server rejected the token.
func (c *Client) establish(ctx context.Context, resp *model.AuthResponse, fallback model.User) (*model.User, error) {
	if resp.AccessToken == "" {
		return nil, ErrNoToken
	}
	if err := c.tokens.Write(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	me, err := c.Me(ctx)
	if err != nil {
		// The detector has already cleared the new token.
		if IsUnauthorized(err) {
			return nil, fmt.Errorf("sign-in rejected: %w", err)
		}
		c.Logger.Warn("fetch identity after sign-in", "error", err)
		if resp.User != nil {
			return resp.User, nil
		}
		return &fallback, nil
	}
	return me, nil
}

// Me returns the identity behind the current token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &u, nil
}

// Logout forgets the stored token. No server call is made.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

// CurrentRole fetches the profile and returns its role. It has the shape
// of session.RoleFunc.
func (c *Client) CurrentRole(ctx context.Context) (session.Role, error) {
	u, err := c.Profile(ctx)
	if err != nil {
		return session.RoleNone, err
	}
	return session.ParseRole(u.Role), nil
}
