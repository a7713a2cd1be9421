package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

type translationResponse struct {
	Key  string `json:"key"`
	Lang string `json:"lang"`
	Text string `json:"text"`
}

func (h *Handler) Translate(c echo.Context) error {
	key := c.Param("key")
	return c.JSON(http.StatusOK, translationResponse{Key: key, Lang: lang(c), Text: h.tr.T(lang(c), key)})
}

func (h *Handler) Languages(c echo.Context) error {
	langs := h.tr.Languages()
	sort.Strings(langs)
	return c.JSON(http.StatusOK, langs)
}
