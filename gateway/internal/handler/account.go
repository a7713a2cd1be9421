package handler

import (
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/account"
	"github.com/labstack/echo/v4"
)

type passwordRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"password_confirmation"`
}

type checklistResponse struct {
	account.Checklist
	Valid  bool     `json:"valid"`
	Failed []string `json:"failed,omitempty"`
}

func (h *Handler) Register(c echo.Context) error {
	var in model.Registration
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Account.Register(c.Request().Context(), in); err != nil {
		return err
	}
	return h.done(c, http.StatusCreated, "users.registered")
}

// CheckPassword reports the strength rules so the form can tick them off
// while the user types.
func (h *Handler) CheckPassword(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl := account.CheckPassword(req.Password)
	failed := cl.Failed()
	for i, key := range failed {
		failed[i] = h.tr.T(lang(c), key)
	}
	return c.JSON(http.StatusOK, checklistResponse{Checklist: cl, Valid: cl.Valid(), Failed: failed})
}

func (h *Handler) RequestReset(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Account.RequestReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "password.resetSent")
}

func (h *Handler) VerifyToken(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	email, err := h.svc.Account.VerifyToken(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, struct {
		Valid bool   `json:"valid"`
		Email string `json:"email,omitempty"`
	}{Valid: true, Email: email})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Account.ResetPassword(c.Request().Context(), req.Token, req.Password, req.Confirm); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "password.resetDone")
}
