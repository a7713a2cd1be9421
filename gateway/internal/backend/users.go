package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	return out, c.list(ctx, "/usuarios", &out)
}

func (c *Client) GetUser(ctx context.Context, id model.ID) (model.User, error) {
	var out model.User
	return out, c.get(ctx, fmt.Sprintf("/usuarios/%d", id), &out)
}

func (c *Client) CreateUser(ctx context.Context, in model.Registration) error {
	return c.send(ctx, http.MethodPost, "/usuarios", in, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id model.ID, in model.UserUpdate) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d", id), in, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/usuarios/%d", id), nil, nil)
}

// UserAction is one of the status endpoints under /usuarios/{id}.
type UserAction string

const (
	ActionApprove UserAction = "approve"
	ActionBlock   UserAction = "block"
	ActionSuspend UserAction = "suspend"
)

func (c *Client) UserAction(ctx context.Context, id model.ID, action UserAction) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d/%s", id, action), struct{}{}, nil)
}
