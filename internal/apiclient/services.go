package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/me/hive/pkg/model"
)

// ListServices returns one page of services matching filter.
func (c *Client) ListServices(ctx context.Context, filter model.ServiceFilter) (*model.Page[model.Service], error) {
	q := pageQuery(filter.PageOptions)
	setIf(q, "service_type", filter.ServiceType)
	setIf(q, "category", filter.Category)
	setIf(q, "tags", filter.Tags)
	setIf(q, "status", filter.Status)
	setIf(q, "user_id", filter.UserID)
	setFloat(q, "latitude", filter.Latitude)
	setFloat(q, "longitude", filter.Longitude)
	setFloat(q, "radius", filter.Radius)

	page, err := getPage[model.Service](ctx, c, "/services/", "services", q)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return page, nil
}

func (c *Client) Service(ctx context.Context, id string) (*model.Service, error) {
	var s model.Service
	if err := c.do(ctx, http.MethodGet, "/services/"+segment(id), nil, nil, &s); err != nil {
		return nil, fmt.Errorf("get service %s: %w", id, err)
	}
	return &s, nil
}

func (c *Client) CreateService(ctx context.Context, req model.ServiceCreate) (*model.Service, error) {
	var s model.Service
	if err := c.do(ctx, http.MethodPost, "/services/", nil, req, &s); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return &s, nil
}

func (c *Client) UpdateService(ctx context.Context, id string, upd model.ServiceUpdate) (*model.Service, error) {
	var s model.Service
	if err := c.do(ctx, http.MethodPut, "/services/"+segment(id), nil, upd, &s); err != nil {
		return nil, fmt.Errorf("update service %s: %w", id, err)
	}
	return &s, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/services/"+segment(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete service %s: %w", id, err)
	}
	return nil
}

// SavedServices lists services the caller bookmarked.
func (c *Client) SavedServices(ctx context.Context, opts model.PageOptions) (*model.Page[model.Service], error) {
	page, err := getPage[model.Service](ctx, c, "/services/saved", "services", pageQuery(opts))
	if err != nil {
		return nil, fmt.Errorf("list saved services: %w", err)
	}
	return page, nil
}
