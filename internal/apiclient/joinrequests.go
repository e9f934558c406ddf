package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/me/hive/pkg/model"
)

func (c *Client) CreateJoinRequest(ctx context.Context, req model.JoinRequestCreate) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	if err := c.do(ctx, http.MethodPost, "/join-requests/", nil, req, &jr); err != nil {
		return nil, fmt.Errorf("create join request: %w", err)
	}
	return &jr, nil
}

// MyJoinRequests lists the caller's requests, optionally filtered by status.
func (c *Client) MyJoinRequests(ctx context.Context, opts model.PageOptions, status string) (*model.Page[model.JoinRequest], error) {
	q := pageQuery(opts)
	setIf(q, "status", status)
	page, err := getPage[model.JoinRequest](ctx, c, "/join-requests/my-requests", "requests", q)
	if err != nil {
		return nil, fmt.Errorf("list my join requests: %w", err)
	}
	return page, nil
}

// ServiceJoinRequests lists requests made against a service the caller owns.
func (c *Client) ServiceJoinRequests(ctx context.Context, serviceID string, opts model.PageOptions) (*model.Page[model.JoinRequest], error) {
	path := "/join-requests/service/" + segment(serviceID)
	page, err := getPage[model.JoinRequest](ctx, c, path, "requests", pageQuery(opts))
	if err != nil {
		return nil, fmt.Errorf("list join requests for %s: %w", serviceID, err)
	}
	return page, nil
}

func (c *Client) JoinRequest(ctx context.Context, id string) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	if err := c.do(ctx, http.MethodGet, "/join-requests/"+segment(id), nil, nil, &jr); err != nil {
		return nil, fmt.Errorf("get join request %s: %w", id, err)
	}
	return &jr, nil
}

func (c *Client) UpdateJoinRequest(ctx context.Context, id string, upd model.JoinRequestUpdate) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	if err := c.do(ctx, http.MethodPut, "/join-requests/"+segment(id), nil, upd, &jr); err != nil {
		return nil, fmt.Errorf("update join request %s: %w", id, err)
	}
	return &jr, nil
}

func (c *Client) CancelJoinRequest(ctx context.Context, id string) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	path := "/join-requests/" + segment(id) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &jr); err != nil {
		return nil, fmt.Errorf("cancel join request %s: %w", id, err)
	}
	return &jr, nil
}
