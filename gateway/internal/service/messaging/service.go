package messaging

import (
	"context"
	"sort"

	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Backend interface {
	ListMessages(ctx context.Context) ([]model.Message, error)
	CreateMessage(ctx context.Context, in model.Message) (model.Message, error)
	DeleteMessage(ctx context.Context, id model.ID) error
	ListMessageUsers(ctx context.Context) ([]model.MessageUser, error)
	CreateMessageUser(ctx context.Context, in model.MessageUser) error
	UpdateMessageUser(ctx context.Context, in model.MessageUser) error
	DeleteMessageUser(ctx context.Context, messageID, userID model.ID) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

var _ Backend = (*backend.Client)(nil)

const resourceMessage = "message"

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
		log:      log.Named("messaging"),
		api:      api,
		rec:      rec,
		validate: validator.New(),
	}
}

type mailbox struct {
	messages map[model.ID]model.Message
	links    []model.MessageUser
	names    map[model.ID]string
}

func (s *Service) load(ctx context.Context) (mailbox, error) {
	var (
		messages []model.Message
		links    []model.MessageUser
		users    []model.User
	)
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() (err error) {
		messages, err = s.api.ListMessages(gctx)
		return err
	})
	gg.Go(func() (err error) {
		links, err = s.api.ListMessageUsers(gctx)
		return err
	})
	gg.Go(func() (err error) {
		users, err = s.api.ListUsers(gctx)
		return err
	})
	if err := gg.Wait(); err != nil {
		return mailbox{}, err
	}

	mb := mailbox{
		messages: make(map[model.ID]model.Message, len(messages)),
		links:    links,
		names:    make(map[model.ID]string, len(users)),
	}
	for _, m := range messages {
		mb.messages[m.ID] = m
	}
	for _, u := range users {
		mb.names[u.ID] = u.FullName()
	}
	return mb, nil
}

func (mb mailbox) item(link model.MessageUser) (model.InboxItem, bool) {
	msg, ok := mb.messages[link.MessageID]
	if !ok {
		return model.InboxItem{}, false
	}
	return model.InboxItem{
		Message:    msg,
		SenderName: mb.names[msg.SenderID],
		Read:       bool(link.Read),
		Archived:   bool(link.Archived),
	}, true
}

func (mb mailbox) link(messageID, userID model.ID) (model.MessageUser, bool) {
	for _, l := range mb.links {
		if l.MessageID == messageID && l.ReceiverID == userID {
			return l, true
		}
	}
	return model.MessageUser{}, false
}

type InboxFilter struct {
	Archived   bool
	UnreadOnly bool
	Search     string
	Page       int
	Size       int
}

type Inbox struct {
	model.List[model.InboxItem]
	Unread int `json:"unread"`
}

// Inbox lists what userID received, newest first.
func (s *Service) Inbox(ctx context.Context, userID model.ID, f InboxFilter) (Inbox, error) {
	mb, err := s.load(ctx)
	if err != nil {
		return Inbox{}, err
	}
	var (
		items  []model.InboxItem
		unread int
	)
	for _, l := range mb.links {
		if l.ReceiverID != userID {
			continue
		}
		it, ok := mb.item(l)
		if !ok {
			continue
		}
		if !it.Read && !it.Archived {
			unread++
		}
		if it.Archived != f.Archived || (f.UnreadOnly && it.Read) {
			continue
		}
		if !model.ContainsFold(f.Search, it.Message.Subject, it.Message.Content, it.SenderName) {
			continue
		}
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Message.CreatedAt > items[j].Message.CreatedAt
	})
	return Inbox{List: model.Paginate(items, f.Page, f.Size), Unread: unread}, nil
}

// Open returns the message as userID sees it and marks it read if it was not.
func (s *Service) Open(ctx context.Context, messageID, userID model.ID) (model.InboxItem, error) {
	mb, err := s.load(ctx)
	if err != nil {
		return model.InboxItem{}, err
	}
	l, ok := mb.link(messageID, userID)
	if !ok {
		return model.InboxItem{}, errors.Wrapf(errs.ErrNotFound, "message %d for user %d", messageID, userID)
	}
	it, ok := mb.item(l)
	if !ok {
		return model.InboxItem{}, errors.Wrapf(errs.ErrNotFound, "message %d", messageID)
	}
	if !l.Read {
		l.Read = model.Read
		if err := s.api.UpdateMessageUser(ctx, l); err != nil {
			return model.InboxItem{}, errors.Wrap(err, "mark read")
		}
		it.Read = true
	}
	return it, nil
}

// MarkRead issues one update per selected unread message. All ids are tried;
// the failures are returned together.
func (s *Service) MarkRead(ctx context.Context, userID model.ID, ids []model.ID) (int, error) {
	return s.updateLinks(ctx, userID, ids, "read", func(l *model.MessageUser) bool {
		if l.Read {
			return false
		}
		l.Read = model.Read
		return true
	})
}

func (s *Service) Archive(ctx context.Context, userID model.ID, ids []model.ID) (int, error) {
	return s.updateLinks(ctx, userID, ids, "archive", func(l *model.MessageUser) bool {
		if l.Archived {
			return false
		}
		l.Archived = true
		return true
	})
}

func (s *Service) updateLinks(ctx context.Context, userID model.ID, ids []model.ID, action string, apply func(*model.MessageUser) bool) (int, error) {
	mb, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	var (
		done int
		errc error
	)
	for _, id := range ids {
		l, ok := mb.link(id, userID)
		if !ok {
			errc = multierr.Append(errc, errors.Wrapf(errs.ErrNotFound, "message %d", id))
			continue
		}
		if !apply(&l) {
			continue
		}
		if err := s.api.UpdateMessageUser(ctx, l); err != nil {
			s.log.Warn("update message link", zap.String("action", action), zap.Stringer("message", id), zap.Error(err))
			errc = multierr.Append(errc, errors.Wrapf(err, "message %d", id))
			continue
		}
		done++
	}
	if done > 0 {
		s.rec.Record(ctx, service.Mutation{Resource: resourceMessage, Action: action, Key: userID.String()})
	}
	return done, errc
}

// Send stores the message and then links it to each receiver. Links that
// fail are reported; the message and the links already made stay.
func (s *Service) Send(ctx context.Context, senderID model.ID, out model.OutgoingMessage) (model.Message, error) {
	if err := s.validate.Struct(out); err != nil {
		return model.Message{}, errs.Validation("message", err.Error(), "validation.required")
	}
	msg, err := s.api.CreateMessage(ctx, model.Message{
		Subject:  out.Subject,
		Content:  out.Content,
		SenderID: senderID,
	})
	if err != nil {
		return model.Message{}, errors.Wrap(err, "create message")
	}
	var errc error
	seen := make(map[model.ID]bool, len(out.Receivers))
	for _, r := range out.Receivers {
		if seen[r] {
			continue
		}
		seen[r] = true
		if err := s.api.CreateMessageUser(ctx, model.MessageUser{MessageID: msg.ID, ReceiverID: r}); err != nil {
			errc = multierr.Append(errc, errors.Wrapf(err, "link receiver %d", r))
		}
	}
	s.rec.Record(ctx, service.Mutation{
		Resource: resourceMessage,
		Action:   "send",
		Key:      msg.ID.String(),
		Partial:  errc != nil,
	})
	return msg, errc
}

type SentItem struct {
	Message   model.Message `json:"message"`
	Receivers int           `json:"receivers"`
	ReadBy    int           `json:"readBy"`
}

func (s *Service) Sent(ctx context.Context, senderID model.ID, page, size int) (model.List[SentItem], error) {
	mb, err := s.load(ctx)
	if err != nil {
		return model.List[SentItem]{}, err
	}
	byMessage := make(map[model.ID]*SentItem)
	for _, m := range mb.messages {
		if m.SenderID == senderID {
			byMessage[m.ID] = &SentItem{Message: m}
		}
	}
	for _, l := range mb.links {
		if it, ok := byMessage[l.MessageID]; ok {
			it.Receivers++
			if l.Read {
				it.ReadBy++
			}
		}
	}
	items := make([]SentItem, 0, len(byMessage))
	for _, it := range byMessage {
		items = append(items, *it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Message.CreatedAt != items[j].Message.CreatedAt {
			return items[i].Message.CreatedAt > items[j].Message.CreatedAt
		}
		return items[i].Message.ID > items[j].Message.ID
	})
	return model.Paginate(items, page, size), nil
}

// Remove deletes the message from userID's inbox only.
func (s *Service) Remove(ctx context.Context, messageID, userID model.ID) error {
	if err := s.api.DeleteMessageUser(ctx, messageID, userID); err != nil {
		return errors.Wrap(err, "remove message")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceMessage, Action: "remove", Key: messageID.String()})
	return nil
}

// Delete removes the message for everyone.
func (s *Service) Delete(ctx context.Context, messageID model.ID) error {
	if err := s.api.DeleteMessage(ctx, messageID); err != nil {
		return errors.Wrap(err, "delete message")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceMessage, Action: "delete", Key: messageID.String()})
	return nil
}
