package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// XUserID carries the id of the member using the page.
	XUserID              = "X-User-Id"
	HeaderAcceptLanguage = "Accept-Language"

	langKey   = "lang"
	userIDKey = "userID"
)

type messageResponse struct {
	Message string `json:"message"`
}

// language picks ?lang= first, then the first Accept-Language tag, and
// falls back to the translator's default.
func (h *Handler) language(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(langKey, h.pickLanguage(c.QueryParam(langKey), c.Request().Header.Get(HeaderAcceptLanguage)))
		return next(c)
	}
}

func (h *Handler) pickLanguage(query, header string) string {
	if query != "" && h.tr.Supports(query) {
		return query
	}
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if tag != "" && h.tr.Supports(tag) {
			return tag
		}
	}
	return h.tr.Default()
}

func lang(c echo.Context) string {
	l, _ := c.Get(langKey).(string) //nolint:errcheck
	return l
}

func (h *Handler) currentUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(XUserID)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "empty "+XUserID)
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid "+XUserID)
		}
		c.Set(userIDKey, model.ID(id))
		return next(c)
	}
}

func userID(c echo.Context) model.ID {
	id, _ := c.Get(userIDKey).(model.ID) //nolint:errcheck
	return id
}

// errorHandler renders every failure as {"message": ...}. Backend
// rejections keep the backend's own message; everything else is translated.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var (
		he   *echo.HTTPError
		code int
		msg  string
	)
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
		if he.Internal != nil {
			h.log.Debug("http error", zap.Error(he.Internal))
		}
	} else {
		code = errs.HTTPStatus(err)
		msg = h.errorMessage(lang(c), err)
	}
	if code >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		h.log.Error("request failed", zap.Int("status", code), zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, messageResponse{Message: msg})
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

func (h *Handler) errorMessage(lang string, err error) string {
	var (
		ve *errs.ValidationError
		ne *errs.NetworkError
		se *errs.ServerError
	)
	switch {
	case errors.As(err, &ve):
		return h.tr.T(lang, ve.Key)
	case errors.As(err, &ne):
		return h.tr.T(lang, "errors.network")
	case errors.As(err, &se):
		if se.Status == http.StatusNotFound {
			return h.tr.T(lang, "errors.notFound")
		}
		if se.Message != "" {
			return se.Message
		}
		if se.Body != "" {
			return h.tr.T(lang, "errors.server") + ": " + se.Body
		}
		return h.tr.T(lang, "errors.server")
	case errors.Is(err, errs.ErrNoActiveLoan):
		return h.tr.T(lang, "instruments.noActiveLoan")
	case errors.Is(err, errs.ErrNotFound):
		return h.tr.T(lang, "errors.notFound")
	default:
		return h.tr.T(lang, "errors.unknown")
	}
}
