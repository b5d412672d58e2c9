package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ContentTypeJSON is set on every request that carries a body.
const ContentTypeJSON = "application/json; charset=UTF-8"

// Response is the outcome of an exchange that reached the appliance. The
// caller decides what the status means.
type Response struct {
	Status int
	Body   string
}

// OK reports whether the status is in the 2xx/3xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 400
}

// Observer is told about every finished exchange. status is zero when err
// is set.
type Observer interface {
	ObserveRequest(method, path string, status int, err error, elapsed time.Duration)
}

// Client performs single, independent requests against the appliance API.
type Client struct {
	base     string
	client   *http.Client
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each exchange. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.client
		hc.Timeout = d
		c.client = &hc
	}
}

// WithObserver reports each exchange to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a client rooted at base, e.g. "http://192.168.99.119:8000".
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		// Redirects are left to the caller so 3xx statuses stay visible.
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Base returns the base URL the client was created with.
func (c *Client) Base() string {
	return c.base
}

// URL joins path onto the client's base.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Send performs one exchange. The error is non-nil only when the appliance
// could not be reached or the body could not be read; HTTP error statuses are
// returned as a Response.
func (c *Client) Send(ctx context.Context, method, path string, body any) (*Response, error) {
	start := time.Now()
	resp, err := c.send(ctx, method, path, body)
	if c.observer != nil {
		status := 0
		if resp != nil {
			status = resp.Status
		}
		c.observer.ObserveRequest(method, path, status, err, time.Since(start))
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := encode(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{Status: resp.StatusCode, Body: string(data)}, nil
}

// Do performs one exchange and invokes exactly one of the callbacks:
// onSuccess whenever a response arrived, whatever its status, and onError on
// transport failure. Either callback may be nil.
func (c *Client) Do(ctx context.Context, method, path string, body any, onSuccess func(*Response), onError func(error)) {
	resp, err := c.Send(ctx, method, path, body)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(resp)
	}
}

// encode serializes body as JSON. Raw JSON and pre-encoded bytes are sent
// verbatim.
func encode(body any) ([]byte, error) {
	switch b := body.(type) {
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(body)
	}
}
