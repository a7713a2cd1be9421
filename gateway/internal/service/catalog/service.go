package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Backend interface {
	ListCompositions(ctx context.Context) ([]model.Composition, error)
	CreateComposition(ctx context.Context, in model.Composition) error
	UpdateComposition(ctx context.Context, in model.Composition) error
	DeleteComposition(ctx context.Context, id model.ID) error
	ListEntities(ctx context.Context) ([]model.Entity, error)
	CreateEntity(ctx context.Context, in model.Entity) error
	UpdateEntity(ctx context.Context, in model.Entity) error
	DeleteEntity(ctx context.Context, id model.ID) error
}

var _ Backend = (*backend.Client)(nil)

const (
	resourceComposition = "composition"
	resourceEntity      = "entity"
)

type Service struct {
	log      *zap.Logger
	api      Backend
	rec      service.Recorder
	validate *validator.Validate
}

func NewService(log *zap.Logger, api Backend, rec service.Recorder) *Service {
	if rec == nil {
		rec = service.NopRecorder{}
	}
	return &Service{
		log:      log.Named("catalog"),
		api:      api,
		rec:      rec,
		validate: validator.New(),
	}
}

type Filter struct {
	Type   string
	Search string
	Page   int
	Size   int
}

func sameType(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

// Compositions returns the filtered repertoire ordered by title.
func (s *Service) Compositions(ctx context.Context, f Filter) (model.List[model.Composition], error) {
	items, err := s.filterCompositions(ctx, f)
	if err != nil {
		return model.List[model.Composition]{}, err
	}
	return model.Paginate(items, f.Page, f.Size), nil
}

func (s *Service) filterCompositions(ctx context.Context, f Filter) ([]model.Composition, error) {
	all, err := s.api.ListCompositions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list compositions")
	}
	items := model.Filter(all, func(c model.Composition) bool {
		return sameType(f.Type, c.Type) && model.ContainsFold(f.Search, c.Title, c.Composer)
	})
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
	})
	return items, nil
}

func (s *Service) CreateComposition(ctx context.Context, in model.Composition) error {
	if err := s.validate.Struct(in); err != nil {
		return errs.Validation("composition", err.Error(), "validation.required")
	}
	if err := s.api.CreateComposition(ctx, in); err != nil {
		return errors.Wrap(err, "create composition")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceComposition, Action: "create", Key: in.Title})
	return nil
}

func (s *Service) UpdateComposition(ctx context.Context, in model.Composition) error {
	if in.ID == 0 {
		return errs.Validation("id", "required", "validation.required")
	}
	if err := s.validate.Struct(in); err != nil {
		return errs.Validation("composition", err.Error(), "validation.required")
	}
	if err := s.api.UpdateComposition(ctx, in); err != nil {
		return errors.Wrapf(err, "update composition %d", in.ID)
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceComposition, Action: "update", Key: in.ID.String()})
	return nil
}

func (s *Service) DeleteComposition(ctx context.Context, id model.ID) error {
	if err := s.api.DeleteComposition(ctx, id); err != nil {
		return errors.Wrapf(err, "delete composition %d", id)
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceComposition, Action: "delete", Key: id.String()})
	return nil
}

// Entities returns the filtered contacts ordered by name.
func (s *Service) Entities(ctx context.Context, f Filter) (model.List[model.Entity], error) {
	all, err := s.api.ListEntities(ctx)
	if err != nil {
		return model.List[model.Entity]{}, errors.Wrap(err, "list entities")
	}
	items := model.Filter(all, func(e model.Entity) bool {
		return sameType(f.Type, e.Type) && model.ContainsFold(f.Search, e.Name, e.Contact, e.Email)
	})
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return model.Paginate(items, f.Page, f.Size), nil
}

func (s *Service) CreateEntity(ctx context.Context, in model.Entity) error {
	if err := s.validate.Struct(in); err != nil {
		return errs.Validation("entity", err.Error(), "validation.required")
	}
	if err := s.api.CreateEntity(ctx, in); err != nil {
		return errors.Wrap(err, "create entity")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceEntity, Action: "create", Key: in.Name})
	return nil
}

func (s *Service) UpdateEntity(ctx context.Context, in model.Entity) error {
	if in.ID == 0 {
		return errs.Validation("id", "required", "validation.required")
	}
	if err := s.validate.Struct(in); err != nil {
		return errs.Validation("entity", err.Error(), "validation.required")
	}
	if err := s.api.UpdateEntity(ctx, in); err != nil {
		return errors.Wrapf(err, "update entity %d", in.ID)
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceEntity, Action: "update", Key: in.ID.String()})
	return nil
}

func (s *Service) DeleteEntity(ctx context.Context, id model.ID) error {
	if err := s.api.DeleteEntity(ctx, id); err != nil {
		return errors.Wrapf(err, "delete entity %d", id)
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceEntity, Action: "delete", Key: id.String()})
	return nil
}
