package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/pkg/errors"
)

func (c *Client) ListInstruments(ctx context.Context) ([]model.Instrument, error) {
	var out []model.Instrument
	return out, c.list(ctx, "/instrumentos", &out)
}

func (c *Client) CreateInstrument(ctx context.Context, in model.Instrument) error {
	return c.send(ctx, http.MethodPost, "/instrumentos", in, nil)
}

func (c *Client) UpdateInstrument(ctx context.Context, in model.Instrument) error {
	return c.send(ctx, http.MethodPut, "/instrumentos/"+url.PathEscape(in.Serial.String()), in, nil)
}

func (c *Client) DeleteInstrument(ctx context.Context, serial model.Serial) error {
	return c.send(ctx, http.MethodDelete, "/instrumentos/"+url.PathEscape(serial.String()), nil, nil)
}

func (c *Client) ListInstrumentTypes(ctx context.Context) ([]model.InstrumentType, error) {
	var out []model.InstrumentType
	return out, c.list(ctx, "/tipo-instrumentos", &out)
}

func (c *Client) GetInstrumentType(ctx context.Context, id string) (model.InstrumentType, error) {
	var out model.InstrumentType
	return out, c.get(ctx, "/tipo-instrumentos/"+url.PathEscape(id), &out)
}

func (c *Client) CreateInstrumentType(ctx context.Context, in model.InstrumentType) error {
	return c.send(ctx, http.MethodPost, "/tipo-instrumentos", in, nil)
}

func (c *Client) UpdateInstrumentType(ctx context.Context, in model.InstrumentType) error {
	return c.send(ctx, http.MethodPut, "/tipo-instrumentos/"+url.PathEscape(in.ID), in, nil)
}

func (c *Client) DeleteInstrumentType(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/tipo-instrumentos/"+url.PathEscape(id), nil, nil)
}

// AdjustTypeQuantity reads the type and writes back its counter plus delta.
// The read and the write are two independent calls.
func (c *Client) AdjustTypeQuantity(ctx context.Context, id string, delta int) error {
	t, err := c.GetInstrumentType(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "read type %s", id)
	}
	if t.ID == "" {
		t.ID = id
	}
	t.Quantity += delta
	if t.Quantity < 0 {
		t.Quantity = 0
	}
	return errors.Wrapf(c.UpdateInstrumentType(ctx, t), "write type %s", id)
}

func (c *Client) ListLoans(ctx context.Context) ([]model.Loan, error) {
	var out []model.Loan
	return out, c.list(ctx, "/prestamos", &out)
}

func (c *Client) CreateLoan(ctx context.Context, in model.Loan) error {
	return c.send(ctx, http.MethodPost, "/prestamos", in, nil)
}

func loanPath(serial model.Serial, userID model.ID) string {
	return fmt.Sprintf("/prestamos/%s/%d", url.PathEscape(serial.String()), userID)
}

func (c *Client) UpdateLoan(ctx context.Context, in model.Loan) error {
	return c.send(ctx, http.MethodPut, loanPath(in.Serial, in.UserID), in, nil)
}

func (c *Client) DeleteLoan(ctx context.Context, serial model.Serial, userID model.ID) error {
	return c.send(ctx, http.MethodDelete, loanPath(serial, userID), nil, nil)
}
