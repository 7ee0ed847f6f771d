package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"stripe-integration-demo/internal/apperr"
	"stripe-integration-demo/internal/handler"
	appmiddleware "stripe-integration-demo/internal/middleware"
)

type Server struct {
	echo           *echo.Echo
	orderHandler   *handler.OrderHandler
	productHandler *handler.ProductHandler
	userHandler    *handler.UserHandler
	webhookHandler *handler.WebhookHandler
	jwtSecret      string
}

func NewServer(
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
	userHandler *handler.UserHandler,
	webhookHandler *handler.WebhookHandler,
	jwtSecret string,
	logger *slog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = newErrorHandler(e, logger)

	s := &Server{
		echo:           e,
		orderHandler:   orderHandler,
		productHandler: productHandler,
		userHandler:    userHandler,
		webhookHandler: webhookHandler,
		jwtSecret:      jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/products", s.productHandler.CreateProduct)
	api.GET("/products", s.productHandler.GetProducts)

	auth := appmiddleware.AuthMiddleware(s.jwtSecret)
	api.POST("/orders", s.orderHandler.CreateOrder, auth)
	api.GET("/users/me", s.userHandler.GetMe, auth)

	// Raw body endpoint: signature is computed over the bytes as sent, so
	// no body-parsing middleware may run ahead of it.
	api.POST("/webhook", s.webhookHandler.HandleStripeWebhook)
}

// newErrorHandler maps apperr kinds onto HTTP statuses and keeps internal
// causes out of responses.
func newErrorHandler(e *echo.Echo, logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if ae, ok := apperr.As(err); ok {
			status := apperr.HTTPStatus(err)
			if status >= http.StatusInternalServerError && logger != nil {
				logger.Error("request failed", "kind", string(ae.Kind), "path", c.Path(), "err", err)
			}
			if !c.Response().Committed {
				_ = c.JSON(status, map[string]string{
					"error": apperr.PublicMessage(err),
					"code":  string(ae.Kind),
				})
			}
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
