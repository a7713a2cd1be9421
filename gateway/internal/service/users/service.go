package users

import (
	"context"
	"sort"

	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Backend interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id model.ID) (model.User, error)
	UpdateUser(ctx context.Context, id model.ID, in model.UserUpdate) error
	DeleteUser(ctx context.Context, id model.ID) error
	UserAction(ctx context.Context, id model.ID, action backend.UserAction) error
}

var _ Backend = (*backend.Client)(nil)

const resourceUser = "user"

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
		log:      log.Named("users"),
		api:      api,
		rec:      rec,
		validate: validator.New(),
	}
}

type Filter struct {
	Status model.UserStatus
	Role   model.Role
	Search string
	Page   int
	Size   int
}

type Page struct {
	model.List[model.User]
	Pending int `json:"pending"`
}

// List filters the members by status and role and searches name, email and
// phone. Pending counts every user awaiting approval, whatever the filter.
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	all, err := s.api.ListUsers(ctx)
	if err != nil {
		return Page{}, errors.Wrap(err, "list users")
	}
	pending := 0
	for _, u := range all {
		if u.Status == model.UserPending {
			pending++
		}
	}
	items := model.Filter(all, func(u model.User) bool {
		if f.Status != "" && u.Status != f.Status {
			return false
		}
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		return model.ContainsFold(f.Search, u.FullName(), u.Email, u.Phone)
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].FullName() < items[j].FullName()
	})
	return Page{List: model.Paginate(items, f.Page, f.Size), Pending: pending}, nil
}

func (s *Service) Get(ctx context.Context, id model.ID) (model.User, error) {
	return s.api.GetUser(ctx, id)
}

// SetStatus moves a user to the given status through the matching backend
// action. Pending is not reachable this way.
func (s *Service) SetStatus(ctx context.Context, id model.ID, status model.UserStatus) error {
	var action backend.UserAction
	switch status {
	case model.UserActive:
		action = backend.ActionApprove
	case model.UserBlocked:
		action = backend.ActionBlock
	case model.UserSuspended:
		action = backend.ActionSuspend
	default:
		return errs.Validation("estado", string(status), "validation.required")
	}
	if err := s.api.UserAction(ctx, id, action); err != nil {
		return errors.Wrapf(err, "%s user %d", action, id)
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceUser, Action: string(action), Key: id.String()})
	return nil
}

func (s *Service) Update(ctx context.Context, id model.ID, in model.UserUpdate) error {
	if err := s.validate.Struct(in); err != nil {
		return errs.Validation("user", err.Error(), "validation.required")
	}
	if err := s.api.UpdateUser(ctx, id, in); err != nil {
		return errors.Wrapf(err, "update user %d", id)
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceUser, Action: "update", Key: id.String()})
	return nil
}

func (s *Service) Delete(ctx context.Context, id model.ID) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return errors.Wrapf(err, "delete user %d", id)
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceUser, Action: "delete", Key: id.String()})
	return nil
}
