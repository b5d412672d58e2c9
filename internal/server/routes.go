package server

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/zpanel/internal/config"
	"github.com/primal-host/zpanel/internal/panel"
	"github.com/primal-host/zpanel/internal/sysaction"
	"github.com/primal-host/zpanel/internal/table"
	"golang.org/x/sync/errgroup"
)

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/events", s.handleEvents)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	s.echo.GET("/", s.handleDashboard)
	s.echo.GET("/tables", s.handleTables)
	s.echo.POST("/actions/:command", s.handleAction)
	s.echo.GET("/install", s.handleInstall)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   config.Version,
		"appliance": s.monitor.State(),
	})
}

func (s *Server) handleEvents(c echo.Context) error {
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = n
	}
	return c.JSON(http.StatusOK, s.monitor.Events(limit))
}

func (s *Server) selectors() []string {
	sel := make([]string, 0, len(s.layout.Panels))
	for _, p := range s.layout.Panels {
		sel = append(sel, "#"+p.ID)
	}
	return sel
}

func (s *Server) tableSpecs() []table.Spec {
	specs := make([]table.Spec, 0, len(s.layout.Tables))
	for _, t := range s.layout.Tables {
		specs = append(specs, table.Spec{Endpoint: t.Endpoint, Title: t.Title, Target: t.Target})
	}
	return specs
}

// renderTables fills a fresh document with every table of the layout.
func (s *Server) renderTables(ctx context.Context) (*table.Document, error) {
	doc := table.NewDocument(s.selectors()...)
	if err := s.renderer.RenderAll(ctx, doc, s.tableSpecs()); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Server) handleTables(c echo.Context) error {
	doc, err := s.renderTables(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if target := c.QueryParam("target"); target != "" {
		container := doc.Container(target)
		if container == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown target"})
		}
		return c.JSON(http.StatusOK, container)
	}
	all := make(map[string]*table.Node)
	for _, sel := range doc.Selectors() {
		all[sel] = doc.Container(sel)
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) handleAction(c echo.Context) error {
	command := c.Param("command")
	allowed := false
	for _, a := range sysaction.FromConfig(s.layout.Actions) {
		if a.Command == command {
			allowed = true
			break
		}
	}
	if !allowed {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown action"})
	}

	data := c.FormValue("data")
	// Only a rejected payload is reported; the appliance's answer is logged
	// by the dispatcher and never shown.
	if _, err := s.dispatcher.Dispatch(c.Request().Context(), command, data); errors.Is(err, sysaction.ErrInvalidPayload) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	s.metrics.Actions.WithLabelValues(command).Inc()
	return c.Redirect(http.StatusSeeOther, "/?panel="+url.QueryEscape(s.actionPanel()))
}

// actionPanel is the panel the system actions are shown on.
func (s *Server) actionPanel() string {
	for _, p := range s.layout.Panels {
		if p.ID == "system" {
			return p.ID
		}
	}
	return s.layout.Panels[len(s.layout.Panels)-1].ID
}

type panelView struct {
	ID     string
	Active bool
	Tables []template.HTML
}

type dashboardData struct {
	Version     string
	Links       []panel.Link
	Panels      []panelView
	ActionPanel string
	Actions     []sysaction.Action
	Disks       []panel.Option
	DiskError   string
	Ifaces      []*panel.NetIface
	IfaceError  string
}

func (s *Server) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	nav, err := panel.NewNav(s.layout.Panels)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if p := c.QueryParam("panel"); p != "" {
		if err := nav.Activate(p); err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
	}

	var (
		doc      *table.Document
		disks    []panel.Option
		diskErr  error
		ifaces   []*panel.NetIface
		ifaceErr error
		g        errgroup.Group
	)
	g.Go(func() error {
		var err error
		doc, err = s.renderTables(ctx)
		return err
	})
	g.Go(func() error {
		disks, diskErr = s.diskOptions(ctx)
		return nil
	})
	g.Go(func() error {
		ifaces, ifaceErr = s.interfaces(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	applyNettype(ifaces, c.QueryParams())

	data := dashboardData{
		Version:     config.Version,
		Links:       nav.Links(),
		ActionPanel: s.actionPanel(),
		Actions:     sysaction.FromConfig(s.layout.Actions),
		Disks:       disks,
		Ifaces:      ifaces,
	}
	if diskErr != nil {
		data.DiskError = diskErr.Error()
	}
	if ifaceErr != nil {
		data.IfaceError = ifaceErr.Error()
	}
	for _, l := range data.Links {
		view := panelView{ID: l.PanelID, Active: l.Active}
		for _, t := range doc.Container("#" + l.PanelID).Children {
			h, err := table.HTML(t)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			view.Tables = append(view.Tables, h)
		}
		data.Panels = append(data.Panels, view)
	}

	return c.Render(http.StatusOK, "dashboard", data)
}

func (s *Server) diskOptions(ctx context.Context) ([]panel.Option, error) {
	resp, err := s.client.Send(ctx, http.MethodGet, "/api/disks", nil)
	if err != nil {
		slog.Warn("disk list error", "error", err)
		return nil, errors.New(table.ConnectionErrorText)
	}
	return panel.DiskOptions(resp)
}

func (s *Server) interfaces(ctx context.Context) ([]*panel.NetIface, error) {
	resp, err := s.client.Send(ctx, http.MethodGet, "/api/network/interfaces", nil)
	if err != nil {
		slog.Warn("interface list error", "error", err)
		return nil, errors.New(table.ConnectionErrorText)
	}
	return panel.Interfaces(resp, true)
}

// applyNettype sets each row's checkbox from the submitted network form:
// rows named in "nettype" are on and take their ip_ and gw_ values.
func applyNettype(ifaces []*panel.NetIface, q url.Values) {
	enabled := q["nettype"]
	for _, i := range ifaces {
		if !slices.Contains(enabled, i.Name) {
			i.Toggle(false)
			continue
		}
		i.Toggle(true)
		i.SetIP(q.Get("ip_" + i.Name))
		i.SetGateway(q.Get("gw_" + i.Name))
	}
}
