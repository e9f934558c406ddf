package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/me/hive/pkg/model"
)

func (c *Client) ChatRooms(ctx context.Context, opts model.PageOptions) (*model.Page[model.ChatRoom], error) {
	page, err := getPage[model.ChatRoom](ctx, c, "/chat/rooms", "rooms", pageQuery(opts))
	if err != nil {
		return nil, fmt.Errorf("list chat rooms: %w", err)
	}
	return page, nil
}

func (c *Client) ChatRoom(ctx context.Context, id string) (*model.ChatRoom, error) {
	var r model.ChatRoom
	if err := c.do(ctx, http.MethodGet, "/chat/rooms/"+segment(id), nil, nil, &r); err != nil {
		return nil, fmt.Errorf("get chat room %s: %w", id, err)
	}
	return &r, nil
}

func (c *Client) RoomMessages(ctx context.Context, roomID string, opts model.PageOptions) (*model.Page[model.ChatMessage], error) {
	path := "/chat/rooms/" + segment(roomID) + "/messages"
	page, err := getPage[model.ChatMessage](ctx, c, path, "messages", pageQuery(opts))
	if err != nil {
		return nil, fmt.Errorf("list messages in %s: %w", roomID, err)
	}
	return page, nil
}

// SendMessage posts a message; an empty MessageType is sent as "text".
func (c *Client) SendMessage(ctx context.Context, req model.MessageCreate) (*model.ChatMessage, error) {
	if req.MessageType == "" {
		req.MessageType = "text"
	}
	var m model.ChatMessage
	if err := c.do(ctx, http.MethodPost, "/chat/messages", nil, req, &m); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &m, nil
}

// CreateTransactionRoom opens (or returns) the room for an exchange.
func (c *Client) CreateTransactionRoom(ctx context.Context, transactionID string) (*model.ChatRoom, error) {
	var r model.ChatRoom
	path := "/chat/rooms/transaction/" + segment(transactionID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &r); err != nil {
		return nil, fmt.Errorf("create transaction room: %w", err)
	}
	return &r, nil
}
