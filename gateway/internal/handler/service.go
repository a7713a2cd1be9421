package handler

import (
	"context"
	"io"

	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/account"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/calendar"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/catalog"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/events"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/inventory"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/messaging"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/users"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ InventoryService = (*inventory.Service)(nil)
	_ EventService     = (*events.Service)(nil)
	_ CalendarService  = (*calendar.Service)(nil)
	_ MessageService   = (*messaging.Service)(nil)
	_ UserService      = (*users.Service)(nil)
	_ AccountService   = (*account.Service)(nil)
	_ CatalogService   = (*catalog.Service)(nil)
	_ BreakerReporter  = (*backend.Client)(nil)
)

type BreakerReporter interface {
	BreakerStates() map[string]string
}

type InventoryService interface {
	Load(ctx context.Context) (inventory.Snapshot, error)
	ListInstruments(ctx context.Context, f inventory.InstrumentFilter) (model.List[inventory.InstrumentRow], []string, error)
	Create(ctx context.Context, in model.InstrumentInput) error
	Edit(ctx context.Context, serial model.Serial, in model.InstrumentInput) error
	Delete(ctx context.Context, serial model.Serial) error
	ListTypes(ctx context.Context, search string) ([]model.InstrumentType, error)
	CreateType(ctx context.Context, name string) error
	UpdateType(ctx context.Context, t model.InstrumentType) error
	DeleteType(ctx context.Context, id string) error
	ListLoans(ctx context.Context, f inventory.LoanFilter) (model.List[inventory.LoanRow], error)
	Lend(ctx context.Context, serial model.Serial, userID model.ID) error
	Return(ctx context.Context, serial model.Serial, userID model.ID) error
	DeleteLoan(ctx context.Context, serial model.Serial, userID model.ID) error
}

type EventService interface {
	List(ctx context.Context, f events.Filter) (model.List[model.Event], error)
	Create(ctx context.Context, ev model.Event) error
	Update(ctx context.Context, ev model.Event) error
	Delete(ctx context.Context, id model.ID) error
}

type CalendarService interface {
	Load(ctx context.Context) (*calendar.View, error)
	Delete(ctx context.Context, v *calendar.View, id model.ID, confirmed bool) error
}

type MessageService interface {
	Inbox(ctx context.Context, userID model.ID, f messaging.InboxFilter) (messaging.Inbox, error)
	Open(ctx context.Context, messageID, userID model.ID) (model.InboxItem, error)
	MarkRead(ctx context.Context, userID model.ID, ids []model.ID) (int, error)
	Archive(ctx context.Context, userID model.ID, ids []model.ID) (int, error)
	Send(ctx context.Context, senderID model.ID, out model.OutgoingMessage) (model.Message, error)
	Sent(ctx context.Context, senderID model.ID, page, size int) (model.List[messaging.SentItem], error)
	Remove(ctx context.Context, messageID, userID model.ID) error
	Delete(ctx context.Context, messageID model.ID) error
}

type UserService interface {
	List(ctx context.Context, f users.Filter) (users.Page, error)
	Get(ctx context.Context, id model.ID) (model.User, error)
	SetStatus(ctx context.Context, id model.ID, status model.UserStatus) error
	Update(ctx context.Context, id model.ID, in model.UserUpdate) error
	Delete(ctx context.Context, id model.ID) error
}

type AccountService interface {
	Register(ctx context.Context, in model.Registration) error
	RequestReset(ctx context.Context, email string) error
	VerifyToken(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, token, pw, confirm string) error
}

type CatalogService interface {
	Compositions(ctx context.Context, f catalog.Filter) (model.List[model.Composition], error)
	ExportCompositions(ctx context.Context, w io.Writer, f catalog.Filter) error
	CreateComposition(ctx context.Context, in model.Composition) error
	UpdateComposition(ctx context.Context, in model.Composition) error
	DeleteComposition(ctx context.Context, id model.ID) error
	Entities(ctx context.Context, f catalog.Filter) (model.List[model.Entity], error)
	CreateEntity(ctx context.Context, in model.Entity) error
	UpdateEntity(ctx context.Context, in model.Entity) error
	DeleteEntity(ctx context.Context, id model.ID) error
}
