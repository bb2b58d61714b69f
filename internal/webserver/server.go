// Package webserver hosts the echo instance shared by the storefront and
// admin APIs.
package webserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/config"
)

type Server struct {
	cfg  *config.AppConfig
	echo *echo.Echo
}

func New(cfg *config.AppConfig) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	return &Server{cfg: cfg, echo: e}
}

// Echo exposes the router for route registration.
func (s *Server) Echo() *echo.Echo { return s.echo }

func (s *Server) Start() error {
	zap.S().Infof("Web server listening on %s", s.cfg.Web.Listen)
	err := s.echo.Start(s.cfg.Web.Listen)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)))
			return err
		}
	}
}
