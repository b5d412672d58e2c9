package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/primal-host/zpanel/internal/config"
	"github.com/primal-host/zpanel/internal/metrics"
	"github.com/primal-host/zpanel/internal/monitor"
	"github.com/primal-host/zpanel/internal/request"
	"github.com/primal-host/zpanel/internal/sysaction"
	"github.com/primal-host/zpanel/internal/table"
)

// Server holds the Echo instance and dependencies.
type Server struct {
	echo       *echo.Echo
	client     *request.Client
	renderer   *table.Renderer
	dispatcher *sysaction.Dispatcher
	monitor    *monitor.Monitor
	metrics    *metrics.Metrics
	layout     *config.Layout
	installURL string
	addr       string
}

// New creates a configured Echo server talking to the appliance through c.
// mon reports appliance reachability on /health and /events; met is served
// on /metrics.
func New(c *request.Client, mon *monitor.Monitor, met *metrics.Metrics, layout *config.Layout, installURL, addr string) *Server {
	s := &Server{
		echo:       echo.New(),
		client:     c,
		renderer:   table.NewRenderer(c),
		dispatcher: sysaction.NewDispatcher(c),
		monitor:    mon,
		metrics:    met,
		layout:     layout,
		installURL: installURL,
		addr:       addr,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Renderer = pageTemplates
	s.echo.Use(middleware.Recover())
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("server listening", "addr", s.addr, "appliance", s.client.Base())
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
