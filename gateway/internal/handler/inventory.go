package handler

import (
	"net/http"
	"net/url"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/inventory"
	"github.com/labstack/echo/v4"
)

type instrumentsResponse struct {
	model.List[inventory.InstrumentRow]
	Warnings []string `json:"warnings,omitempty"`
}

func paramSerial(c echo.Context) (model.Serial, error) {
	raw, err := url.PathUnescape(c.Param("serial"))
	if err != nil || raw == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid serial")
	}
	return model.Serial(raw), nil
}

func (h *Handler) GetInventory(c echo.Context) error {
	snap, err := h.svc.Inventory.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) GetInstruments(c echo.Context) error {
	var q struct {
		PageQuery
		Status string `query:"status"`
		Type   string `query:"type"`
	}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	list, warnings, err := h.svc.Inventory.ListInstruments(c.Request().Context(), inventory.InstrumentFilter{
		Search: q.Search,
		Status: model.InstrumentStatus(q.Status),
		TypeID: q.Type,
		Page:   q.Page,
		Size:   q.Size,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, instrumentsResponse{List: list, Warnings: warnings})
}

func (h *Handler) CreateInstrument(c echo.Context) error {
	var in model.InstrumentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Inventory.Create(c.Request().Context(), in); err != nil {
		return err
	}
	return h.done(c, http.StatusCreated, "instruments.created")
}

func (h *Handler) EditInstrument(c echo.Context) error {
	serial, err := paramSerial(c)
	if err != nil {
		return err
	}
	var in model.InstrumentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Inventory.Edit(c.Request().Context(), serial, in); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "instruments.updated")
}

func (h *Handler) DeleteInstrument(c echo.Context) error {
	serial, err := paramSerial(c)
	if err != nil {
		return err
	}
	if err := h.svc.Inventory.Delete(c.Request().Context(), serial); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "instruments.deleted")
}

func (h *Handler) GetInstrumentTypes(c echo.Context) error {
	types, err := h.svc.Inventory.ListTypes(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

func (h *Handler) CreateInstrumentType(c echo.Context) error {
	var in model.InstrumentType
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Inventory.CreateType(c.Request().Context(), in.ID); err != nil {
		return err
	}
	return h.done(c, http.StatusCreated, "common.success")
}

func (h *Handler) UpdateInstrumentType(c echo.Context) error {
	var in model.InstrumentType
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in.ID = c.Param("id")
	if err := h.svc.Inventory.UpdateType(c.Request().Context(), in); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}

func (h *Handler) DeleteInstrumentType(c echo.Context) error {
	if err := h.svc.Inventory.DeleteType(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}

func (h *Handler) GetLoans(c echo.Context) error {
	var q struct {
		PageQuery
		State  string `query:"state"`
		UserID int64  `query:"user"`
	}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	list, err := h.svc.Inventory.ListLoans(c.Request().Context(), inventory.LoanFilter{
		State:  inventory.LoanState(q.State),
		Search: q.Search,
		UserID: model.ID(q.UserID),
		Page:   q.Page,
		Size:   q.Size,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

type createLoanRequest struct {
	Serial model.Serial `json:"num_serie" validate:"required"`
	UserID model.ID     `json:"usuario_id" validate:"required"`
}

func (h *Handler) CreateLoan(c echo.Context) error {
	var req createLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Inventory.Lend(c.Request().Context(), req.Serial, req.UserID); err != nil {
		return err
	}
	return h.done(c, http.StatusCreated, "loans.created")
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	serial, err := paramSerial(c)
	if err != nil {
		return err
	}
	uid, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.svc.Inventory.Return(c.Request().Context(), serial, uid); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "loans.returned")
}

func (h *Handler) DeleteLoan(c echo.Context) error {
	serial, err := paramSerial(c)
	if err != nil {
		return err
	}
	uid, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.svc.Inventory.DeleteLoan(c.Request().Context(), serial, uid); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}
