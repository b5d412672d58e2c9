package install

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Request is the handshake that starts an installation.
type Request struct {
	Disk     string `json:"disk"`
	Force    bool   `json:"force"`
	PoolName string `json:"poolname"`
}

// Validate checks the fields the appliance cannot install without.
func (r Request) Validate() error {
	if r.Disk == "" {
		return fmt.Errorf("disk is required")
	}
	if r.PoolName == "" {
		return fmt.Errorf("poolname is required")
	}
	return nil
}

// Session is one install progress stream. It ends when the appliance closes
// the socket, when Close is called, or when the dial context is cancelled.
type Session struct {
	ID string

	conn  *websocket.Conn
	lines chan string
	done  chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup

	mu  sync.Mutex
	err error
}

// Dial opens the install socket at url and sends req as the first frame.
func Dial(ctx context.Context, url string, req Request) (*Session, error) {
	handshake, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode handshake: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, handshake); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send handshake: %w", err)
	}

	s := &Session{
		ID:    uuid.NewString(),
		conn:  conn,
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	slog.Info("install session opened", "session", s.ID, "url", url, "disk", req.Disk, "pool", req.PoolName, "force", req.Force)

	s.wg.Add(2)
	go s.readLoop()
	go func() {
		defer s.wg.Done()
		select {
		case <-ctx.Done():
			s.shutdown()
		case <-s.done:
		}
	}()
	return s, nil
}

// Lines yields every frame the appliance sends, verbatim. It is closed when
// the session ends.
func (s *Session) Lines() <-chan string {
	return s.lines
}

// Err returns the error that ended the stream, or nil if it ended normally.
// It is meaningful once Lines is closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the session and waits for its goroutines. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.shutdown()
	s.wg.Wait()
	return nil
}

func (s *Session) shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.conn.Close()
		slog.Info("install session closed", "session", s.ID)
	})
}

func (s *Session) readLoop() {
	defer s.wg.Done()
	defer close(s.lines)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.finish(err)
			return
		}
		select {
		case s.lines <- string(data):
		case <-s.done:
			return
		}
	}
}

// finish records how the stream ended. The appliance drops the connection
// without a close frame once installation is over, so an abnormal closure is
// a normal end.
func (s *Session) finish(err error) {
	select {
	case <-s.done:
		return
	default:
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
		slog.Info("install stream ended", "session", s.ID, "reason", err)
	} else {
		slog.Error("install stream failed", "session", s.ID, "error", err)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
	s.shutdown()
}

// Follow runs an installation and writes each progress frame to w as a line.
func Follow(ctx context.Context, url string, req Request, w io.Writer) error {
	s, err := Dial(ctx, url, req)
	if err != nil {
		return err
	}
	defer s.Close()

	for line := range s.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write progress: %w", err)
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	if ctx.Err() != nil && !errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return nil
}
