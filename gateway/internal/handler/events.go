package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/events"
	"github.com/labstack/echo/v4"
)

func (h *Handler) GetEvents(c echo.Context) error {
	var q struct {
		PageQuery
		Type     string `query:"type"`
		Status   string `query:"status"`
		Upcoming bool   `query:"upcoming"`
	}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	list, err := h.svc.Events.List(c.Request().Context(), events.Filter{
		Search:   q.Search,
		Type:     model.EventType(q.Type),
		Status:   model.EventStatus(q.Status),
		Upcoming: q.Upcoming,
		Page:     q.Page,
		Size:     q.Size,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateEvent(c echo.Context) error {
	var ev model.Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Events.Create(c.Request().Context(), ev); err != nil {
		return err
	}
	return h.done(c, http.StatusCreated, "events.created")
}

func (h *Handler) UpdateEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var ev model.Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ev.ID = id
	if err := h.svc.Events.Update(c.Request().Context(), ev); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "events.updated")
}

func (h *Handler) DeleteEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Events.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "events.deleted")
}

// GetMonth answers ?month=YYYY-MM with the days that have events. The
// current month is used when it is omitted.
func (h *Handler) GetMonth(c echo.Context) error {
	month := time.Now()
	if raw := c.QueryParam("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid month")
		}
		month = t
	}
	v, err := h.svc.Calendar.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v.Month(month.Year(), int(month.Month())))
}

func (h *Handler) GetDay(c echo.Context) error {
	day := c.Param("day")
	if _, err := time.Parse(model.DateLayout, day); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid day")
	}
	page, _ := strconv.Atoi(c.QueryParam("page")) //nolint:errcheck
	v, err := h.svc.Calendar.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v.Day(day, page))
}

func (h *Handler) DeleteCalendarEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm")) //nolint:errcheck
	if err := h.svc.Calendar.Delete(c.Request().Context(), nil, id, confirmed); err != nil {
		return err
	}
	return h.done(c, http.StatusOK, "events.deleted")
}
