package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/me/hive/pkg/model"
)

func forumQuery(f model.ForumFilter) url.Values {
	q := pageQuery(f.PageOptions)
	setIf(q, "tag", f.Tag)
	setIf(q, "q", f.Query)
	return q
}

func (c *Client) Discussions(ctx context.Context, filter model.ForumFilter) (*model.Page[model.ForumDiscussion], error) {
	page, err := getPage[model.ForumDiscussion](ctx, c, "/forum/discussions", "discussions", forumQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("list discussions: %w", err)
	}
	return page, nil
}

func (c *Client) Discussion(ctx context.Context, id string) (*model.ForumDiscussion, error) {
	var d model.ForumDiscussion
	if err := c.do(ctx, http.MethodGet, "/forum/discussions/"+segment(id), nil, nil, &d); err != nil {
		return nil, fmt.Errorf("get discussion %s: %w", id, err)
	}
	return &d, nil
}

func (c *Client) CreateDiscussion(ctx context.Context, req model.ForumDiscussionCreate) (*model.ForumDiscussion, error) {
	var d model.ForumDiscussion
	if err := c.do(ctx, http.MethodPost, "/forum/discussions", nil, req, &d); err != nil {
		return nil, fmt.Errorf("create discussion: %w", err)
	}
	return &d, nil
}

func (c *Client) Events(ctx context.Context, filter model.ForumFilter) (*model.Page[model.ForumEvent], error) {
	q := forumQuery(filter)
	if filter.HasLocation != nil {
		q.Set("has_location", strconv.FormatBool(*filter.HasLocation))
	}
	page, err := getPage[model.ForumEvent](ctx, c, "/forum/events", "events", q)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return page, nil
}

func (c *Client) Event(ctx context.Context, id string) (*model.ForumEvent, error) {
	var e model.ForumEvent
	if err := c.do(ctx, http.MethodGet, "/forum/events/"+segment(id), nil, nil, &e); err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &e, nil
}

// Comments lists comments on a discussion or event.
func (c *Client) Comments(ctx context.Context, targetType, targetID string, opts model.PageOptions) (*model.Page[model.ForumComment], error) {
	q := pageQuery(opts)
	q.Set("target_type", targetType)
	q.Set("target_id", targetID)
	page, err := getPage[model.ForumComment](ctx, c, "/forum/comments", "comments", q)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return page, nil
}

func (c *Client) CreateComment(ctx context.Context, req model.ForumCommentCreate) (*model.ForumComment, error) {
	var cm model.ForumComment
	if err := c.do(ctx, http.MethodPost, "/forum/comments", nil, req, &cm); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &cm, nil
}
