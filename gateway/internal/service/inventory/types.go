package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/pkg/errors"
)

const resourceType = "instrument-type"

func (s *Service) ListTypes(ctx context.Context, search string) ([]model.InstrumentType, error) {
	types, err := s.api.ListInstrumentTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := model.Filter(types, func(t model.InstrumentType) bool {
		return model.ContainsFold(search, t.ID)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateType adds a type with its counter at zero; the counter only moves
// when instruments are created, retyped or deleted.
func (s *Service) CreateType(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Validation("instrumento", "required", "validation.required")
	}
	if err := s.api.CreateInstrumentType(ctx, model.InstrumentType{ID: name}); err != nil {
		return errors.Wrap(err, "create type")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceType, Action: "create", Key: name})
	return nil
}

// UpdateType overwrites the stored counter.
func (s *Service) UpdateType(ctx context.Context, t model.InstrumentType) error {
	if strings.TrimSpace(t.ID) == "" {
		return errs.Validation("instrumento", "required", "validation.required")
	}
	if t.Quantity < 0 {
		return errs.Validation("cantidad", "must not be negative", "validation.required")
	}
	if err := s.api.UpdateInstrumentType(ctx, t); err != nil {
		return errors.Wrap(err, "update type")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceType, Action: "update", Key: t.ID})
	return nil
}

func (s *Service) DeleteType(ctx context.Context, id string) error {
	if err := s.api.DeleteInstrumentType(ctx, id); err != nil {
		return errors.Wrap(err, "delete type")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceType, Action: "delete", Key: id})
	return nil
}
