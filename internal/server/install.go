package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/primal-host/zpanel/internal/install"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleInstall relays an installation between the browser and the
// appliance. The browser's first frame is the handshake; every appliance
// frame is forwarded verbatim. Whichever side goes away ends both.
func (s *Server) handleInstall(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already answered the request.
		slog.Warn("install upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil
	}
	var req install.Request
	err = json.Unmarshal(data, &req)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte("error: "+err.Error()))
		closeSocket(conn, websocket.CloseUnsupportedData, err.Error())
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := install.Dial(ctx, s.installURL, req)
	if err != nil {
		slog.Error("install dial failed", "error", err)
		s.metrics.Installs.WithLabelValues("unreachable").Inc()
		conn.WriteMessage(websocket.TextMessage, []byte("error: "+err.Error()))
		closeSocket(conn, websocket.CloseInternalServerErr, "appliance unreachable")
		return nil
	}
	defer session.Close()

	// The browser sends nothing after the handshake; a read error means it
	// left.
	gone := make(chan struct{})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				close(gone)
				cancel()
				return
			}
		}
	}()

	for line := range session.Lines() {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			slog.Warn("install relay write failed", "session", session.ID, "error", err)
			s.metrics.Installs.WithLabelValues("browser_gone").Inc()
			return nil
		}
	}
	select {
	case <-gone:
		slog.Info("install browser left", "session", session.ID)
		s.metrics.Installs.WithLabelValues("browser_gone").Inc()
		return nil
	default:
	}
	if err := session.Err(); err != nil {
		s.metrics.Installs.WithLabelValues("failed").Inc()
		conn.WriteMessage(websocket.TextMessage, []byte("error: "+err.Error()))
	} else {
		s.metrics.Installs.WithLabelValues("completed").Inc()
	}
	closeSocket(conn, websocket.CloseNormalClosure, "")
	return nil
}

func closeSocket(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
