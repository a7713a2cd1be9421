package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
)

func (c *Client) ListMessages(ctx context.Context) ([]model.Message, error) {
	var out []model.Message
	return out, c.list(ctx, "/mensajes", &out)
}

// CreateMessage returns the stored message so its id can be linked.
func (c *Client) CreateMessage(ctx context.Context, in model.Message) (model.Message, error) {
	var out model.Message
	if err := c.send(ctx, http.MethodPost, "/mensajes", in, &out); err != nil {
		return model.Message{}, err
	}
	return out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id model.ID) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/mensajes/%d", id), nil, nil)
}

func (c *Client) ListMessageUsers(ctx context.Context) ([]model.MessageUser, error) {
	var out []model.MessageUser
	return out, c.list(ctx, "/mensaje-usuarios", &out)
}

func (c *Client) CreateMessageUser(ctx context.Context, in model.MessageUser) error {
	return c.send(ctx, http.MethodPost, "/mensaje-usuarios", in, nil)
}

func messageUserPath(messageID, userID model.ID) string {
	return fmt.Sprintf("/mensaje-usuarios/%d/%d/", messageID, userID)
}

func (c *Client) UpdateMessageUser(ctx context.Context, in model.MessageUser) error {
	return c.send(ctx, http.MethodPut, messageUserPath(in.MessageID, in.ReceiverID), in, nil)
}

func (c *Client) DeleteMessageUser(ctx context.Context, messageID, userID model.ID) error {
	return c.send(ctx, http.MethodDelete, messageUserPath(messageID, userID), nil, nil)
}
