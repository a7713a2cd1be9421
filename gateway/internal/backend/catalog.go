package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
)

func (c *Client) ListCompositions(ctx context.Context) ([]model.Composition, error) {
	var out []model.Composition
	return out, c.list(ctx, "/composiciones", &out)
}

func (c *Client) CreateComposition(ctx context.Context, in model.Composition) error {
	return c.send(ctx, http.MethodPost, "/composiciones", in, nil)
}

func (c *Client) UpdateComposition(ctx context.Context, in model.Composition) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/composiciones/%d", in.ID), in, nil)
}

func (c *Client) DeleteComposition(ctx context.Context, id model.ID) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/composiciones/%d", id), nil, nil)
}

func (c *Client) ListEntities(ctx context.Context) ([]model.Entity, error) {
	var out []model.Entity
	return out, c.list(ctx, "/entidades", &out)
}

func (c *Client) CreateEntity(ctx context.Context, in model.Entity) error {
	return c.send(ctx, http.MethodPost, "/entidades", in, nil)
}

func (c *Client) UpdateEntity(ctx context.Context, in model.Entity) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/entidades/%d", in.ID), in, nil)
}

func (c *Client) DeleteEntity(ctx context.Context, id model.ID) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/entidades/%d", id), nil, nil)
}
