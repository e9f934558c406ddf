package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/me/hive/pkg/model"
)

// Profile returns the caller's profile, including role.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, nil, &u); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd model.UserUpdate) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPut, "/users/profile", nil, upd, &u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

// User returns another user's public profile.
func (c *Client) User(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/"+segment(id), nil, nil, &u); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

func (c *Client) Settings(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/settings", nil, nil, &u); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &u, nil
}

func (c *Client) UpdateSettings(ctx context.Context, upd model.UserSettingsUpdate) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPut, "/users/settings", nil, upd, &u); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, req model.PasswordChange) error {
	if err := c.do(ctx, http.MethodPost, "/users/change-password", nil, req, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// TimeBank returns the caller's balance and recent transactions.
func (c *Client) TimeBank(ctx context.Context) (*model.TimeBank, error) {
	var tb model.TimeBank
	if err := c.do(ctx, http.MethodGet, "/users/timebank", nil, nil, &tb); err != nil {
		return nil, fmt.Errorf("get timebank: %w", err)
	}
	return &tb, nil
}

func (c *Client) Badges(ctx context.Context) (*model.BadgeSummary, error) {
	var b model.BadgeSummary
	if err := c.do(ctx, http.MethodGet, "/users/badges", nil, nil, &b); err != nil {
		return nil, fmt.Errorf("get badges: %w", err)
	}
	return &b, nil
}

func (c *Client) AvailableInterests(ctx context.Context) ([]string, error) {
	var interests []string
	if err := c.do(ctx, http.MethodGet, "/users/available-interests", nil, nil, &interests); err != nil {
		return nil, fmt.Errorf("get interests: %w", err)
	}
	return interests, nil
}

// AdminTimeBankTransactions lists every user's transactions (admin only).
func (c *Client) AdminTimeBankTransactions(ctx context.Context, opts model.PageOptions) (*model.Page[model.TimeBankTransaction], error) {
	page, err := getPage[model.TimeBankTransaction](ctx, c, "/users/admin/timebank-transactions", "transactions", pageQuery(opts))
	if err != nil {
		return nil, fmt.Errorf("list timebank transactions: %w", err)
	}
	return page, nil
}
