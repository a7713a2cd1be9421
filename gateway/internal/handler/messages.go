package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/messaging"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type selectionRequest struct {
	IDs []model.ID `json:"ids" validate:"required,min=1"`
}

type selectionResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

func (h *Handler) GetInbox(c echo.Context) error {
	var q struct {
		PageQuery
		Archived bool `query:"archived"`
		Unread   bool `query:"unread"`
	}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	inbox, err := h.svc.Messages.Inbox(c.Request().Context(), userID(c), messaging.InboxFilter{
		Archived:   q.Archived,
		UnreadOnly: q.Unread,
		Search:     q.Search,
		Page:       q.Page,
		Size:       q.Size,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inbox)
}

func (h *Handler) GetSent(c echo.Context) error {
	var q PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	list, err := h.svc.Messages.Sent(c.Request().Context(), userID(c), q.Page, q.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) OpenMessage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	it, err := h.svc.Messages.Open(c.Request().Context(), id, userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) SendMessage(c echo.Context) error {
	var out model.OutgoingMessage
	if err := c.Bind(&out); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msg, err := h.svc.Messages.Send(c.Request().Context(), userID(c), out)
	if err != nil {
		if msg.ID == 0 {
			return err
		}
		// Stored, but some receivers were not linked.
		return c.JSON(http.StatusMultiStatus, struct {
			model.Message
			Error string `json:"error"`
		}{Message: msg, Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) MarkRead(c echo.Context) error {
	return h.selection(c, h.svc.Messages.MarkRead, "messages.markedRead")
}

func (h *Handler) Archive(c echo.Context) error {
	return h.selection(c, h.svc.Messages.Archive, "messages.archived")
}

func (h *Handler) selection(c echo.Context, apply func(ctx context.Context, uid model.ID, ids []model.ID) (int, error), key string) error {
	var req selectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := apply(c.Request().Context(), userID(c), req.IDs)
	if err != nil && n == 0 {
		return err
	}
	resp := selectionResponse{Message: h.tr.T(lang(c), key), Updated: n}
	if err != nil {
		h.log.Warn("selection partially applied", zap.Int("updated", n), zap.Error(err))
		return c.JSON(http.StatusMultiStatus, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// RemoveMessage drops the message from the caller's inbox, or deletes it
// for everyone with ?all=true.
func (h *Handler) RemoveMessage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	all, _ := strconv.ParseBool(c.QueryParam("all")) //nolint:errcheck
	if all {
		err = h.svc.Messages.Delete(c.Request().Context(), id)
	} else {
		err = h.svc.Messages.Remove(c.Request().Context(), id, userID(c))
	}
	if err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}
