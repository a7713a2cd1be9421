package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/bandcoord/gateway/config"
	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/i18n"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/account"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/calendar"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/catalog"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/events"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/inventory"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/messaging"
	"github.com/Astemirdum/bandcoord/gateway/internal/service/users"
	mw "github.com/Astemirdum/bandcoord/pkg/middleware"
	"github.com/Astemirdum/bandcoord/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services are the page services the routes delegate to.
type Services struct {
	Inventory InventoryService
	Events    EventService
	Calendar  CalendarService
	Messages  MessageService
	Users     UserService
	Account   AccountService
	Catalog   CatalogService
	// Breakers reports the backend circuit breakers; nil reports none.
	Breakers BreakerReporter
}

// NewServices builds every page service on top of one backend client.
func NewServices(log *zap.Logger, cfg config.Config, api *backend.Client, rec service.Recorder) Services {
	return Services{
		Inventory: inventory.NewService(log, api, rec),
		Events:    events.NewService(log, api, rec, cfg.Events.SweepOnLoad),
		Calendar:  calendar.NewService(log, api, rec),
		Messages:  messaging.NewService(log, api, rec),
		Users:     users.NewService(log, api, rec),
		Account:   account.NewService(log, api, rec),
		Catalog:   catalog.NewService(log, api, rec),
		Breakers:  api,
	}
}

type Handler struct {
	svc     Services
	tr      *i18n.Translator
	log     *zap.Logger
	metrics http.Handler
}

func New(log *zap.Logger, tr *i18n.Translator, svc Services) *Handler {
	return &Handler{
		svc:     svc,
		tr:      tr,
		log:     log.Named("handler"),
		metrics: promhttp.Handler(),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = h.errorHandler
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, HeaderAcceptLanguage, XUserID},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/manage/breakers", h.Breakers)
	base.GET("/metrics", echo.WrapHandler(h.metrics))

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
		mw.ForwardToken(backend.WithToken),
		h.language,
	)

	api.GET("/i18n/languages", h.Languages)
	api.GET("/i18n/:key", h.Translate)

	api.POST("/register", h.Register)
	api.POST("/password/check", h.CheckPassword)
	api.POST("/password/forgot", h.RequestReset)
	api.POST("/password/verify", h.VerifyToken)
	api.POST("/password/reset", h.ResetPassword)

	api.GET("/inventory", h.GetInventory)
	api.GET("/instruments", h.GetInstruments)
	api.POST("/instruments", h.CreateInstrument)
	api.PUT("/instruments/:serial", h.EditInstrument)
	api.DELETE("/instruments/:serial", h.DeleteInstrument)

	api.GET("/instrument-types", h.GetInstrumentTypes)
	api.POST("/instrument-types", h.CreateInstrumentType)
	api.PUT("/instrument-types/:id", h.UpdateInstrumentType)
	api.DELETE("/instrument-types/:id", h.DeleteInstrumentType)

	api.GET("/loans", h.GetLoans)
	api.POST("/loans", h.CreateLoan)
	api.POST("/loans/:serial/:userId/return", h.ReturnLoan)
	api.DELETE("/loans/:serial/:userId", h.DeleteLoan)

	api.GET("/events", h.GetEvents)
	api.POST("/events", h.CreateEvent)
	api.PUT("/events/:id", h.UpdateEvent)
	api.DELETE("/events/:id", h.DeleteEvent)

	api.GET("/calendar", h.GetMonth)
	api.GET("/calendar/:day", h.GetDay)
	api.DELETE("/calendar/events/:id", h.DeleteCalendarEvent)

	api.GET("/users", h.GetUsers)
	api.GET("/users/:id", h.GetUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.PUT("/users/:id/status", h.SetUserStatus)
	api.DELETE("/users/:id", h.DeleteUser)

	msg := api.Group("/messages", h.currentUser)
	msg.GET("", h.GetInbox)
	msg.GET("/sent", h.GetSent)
	msg.GET("/:id", h.OpenMessage)
	msg.POST("", h.SendMessage)
	msg.POST("/read", h.MarkRead)
	msg.POST("/archive", h.Archive)
	msg.DELETE("/:id", h.RemoveMessage)

	api.GET("/compositions", h.GetCompositions)
	api.GET("/compositions/export", h.ExportCompositions)
	api.POST("/compositions", h.CreateComposition)
	api.PUT("/compositions/:id", h.UpdateComposition)
	api.DELETE("/compositions/:id", h.DeleteComposition)

	api.GET("/entities", h.GetEntities)
	api.POST("/entities", h.CreateEntity)
	api.PUT("/entities/:id", h.UpdateEntity)
	api.DELETE("/entities/:id", h.DeleteEntity)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Breakers(c echo.Context) error {
	states := map[string]string{}
	if h.svc.Breakers != nil {
		states = h.svc.Breakers.BreakerStates()
	}
	return c.JSON(http.StatusOK, states)
}

type PageQuery struct {
	Page   int    `query:"page"`
	Size   int    `query:"size"`
	Search string `query:"search"`
}

func bindQuery(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func paramID(c echo.Context, name string) (model.ID, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return model.ID(id), nil
}

// done answers a successful write with its translated confirmation.
func (h *Handler) done(c echo.Context, code int, key string) error {
	return c.JSON(code, messageResponse{Message: h.tr.T(lang(c), key)})
}
