package handler

import (
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/users"
	"github.com/labstack/echo/v4"
)

func (h *Handler) GetUsers(c echo.Context) error {
	var q struct {
		PageQuery
		Status string `query:"status"`
		Role   string `query:"role"`
	}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.svc.Users.List(c.Request().Context(), users.Filter{
		Status: model.UserStatus(q.Status),
		Role:   model.Role(q.Role),
		Search: q.Search,
		Page:   q.Page,
		Size:   q.Size,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.svc.Users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in model.UserUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Users.Update(c.Request().Context(), id, in); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}

var statusMessages = map[model.UserStatus]string{
	model.UserActive:    "users.approved",
	model.UserBlocked:   "users.blocked",
	model.UserSuspended: "users.suspended",
}

func (h *Handler) SetUserStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status model.UserStatus `json:"estado" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Users.SetStatus(c.Request().Context(), id, req.Status); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, statusMessages[req.Status])
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}
