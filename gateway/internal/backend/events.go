package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
)

func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	return out, c.list(ctx, "/eventos", &out)
}

func (c *Client) CreateEvent(ctx context.Context, in model.Event) error {
	return c.send(ctx, http.MethodPost, "/eventos", in, nil)
}

func (c *Client) UpdateEvent(ctx context.Context, in model.Event) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/eventos/%d", in.ID), in, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, id model.ID) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/eventos/%d", id), nil, nil)
}
