package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/catalog"
	"github.com/labstack/echo/v4"
)

const compositionsFile = "composiciones.csv"

func catalogFilter(c echo.Context) (catalog.Filter, error) {
	var q struct {
		PageQuery
		Type string `query:"type"`
	}
	if err := bindQuery(c, &q); err != nil {
		return catalog.Filter{}, err
	}
	return catalog.Filter{Type: q.Type, Search: q.Search, Page: q.Page, Size: q.Size}, nil
}

func (h *Handler) GetCompositions(c echo.Context) error {
	f, err := catalogFilter(c)
	if err != nil {
		return err
	}
	list, err := h.svc.Catalog.Compositions(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ExportCompositions(c echo.Context) error {
	f, err := catalogFilter(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.svc.Catalog.ExportCompositions(c.Request().Context(), &buf, f); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", compositionsFile))
	return c.Stream(http.StatusOK, "text/csv; charset=utf-8", &buf)
}

func (h *Handler) CreateComposition(c echo.Context) error {
	var in model.Composition
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Catalog.CreateComposition(c.Request().Context(), in); err != nil {
		return err
	}
	return h.done(c, http.StatusCreated, "common.success")
}

func (h *Handler) UpdateComposition(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in model.Composition
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in.ID = id
	if err := h.svc.Catalog.UpdateComposition(c.Request().Context(), in); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}

func (h *Handler) DeleteComposition(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Catalog.DeleteComposition(c.Request().Context(), id); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}

func (h *Handler) GetEntities(c echo.Context) error {
	f, err := catalogFilter(c)
	if err != nil {
		return err
	}
	list, err := h.svc.Catalog.Entities(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateEntity(c echo.Context) error {
	var in model.Entity
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Catalog.CreateEntity(c.Request().Context(), in); err != nil {
		return err
	}
	return h.done(c, http.StatusCreated, "common.success")
}

func (h *Handler) UpdateEntity(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in model.Entity
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in.ID = id
	if err := h.svc.Catalog.UpdateEntity(c.Request().Context(), in); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}

func (h *Handler) DeleteEntity(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Catalog.DeleteEntity(c.Request().Context(), id); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "common.success")
}
